// Package telegram sends notifications through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxTextLen is the Bot API message limit the bridge truncates to.
const MaxTextLen = 4000

// DefaultParseMode is applied when the caller does not pick one.
const DefaultParseMode = "HTML"

type Client struct {
	Token   string
	BaseURL string // defaults to the public Bot API; override in tests
	HTTP    *http.Client
}

func New(token string) *Client {
	return &Client{Token: token}
}

type sendMessageReq struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResp struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Notify sends text to the chat and returns the message id. Text is truncated
// to MaxTextLen runes before sending.
func (c *Client) Notify(ctx context.Context, chatID, text, parseMode string) (int64, error) {
	if parseMode == "" {
		parseMode = DefaultParseMode
	}
	body, err := json.Marshal(sendMessageReq{
		ChatID:                chatID,
		Text:                  Truncate(text, MaxTextLen),
		ParseMode:             parseMode,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return 0, err
	}

	base := c.BaseURL
	if base == "" {
		base = "https://api.telegram.org"
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", base, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var out sendMessageResp
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK || !out.OK {
		if out.Description != "" {
			return 0, fmt.Errorf("telegram: %s", out.Description)
		}
		return 0, fmt.Errorf("telegram error %d", resp.StatusCode)
	}
	return out.Result.MessageID, nil
}

// Truncate cuts text to at most n runes.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
