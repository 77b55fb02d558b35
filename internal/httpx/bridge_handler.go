package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/almasatelier/shop-bridge/internal/kafka"
	"github.com/almasatelier/shop-bridge/internal/redisx"
	"github.com/almasatelier/shop-bridge/internal/signature"
	"github.com/almasatelier/shop-bridge/internal/state"
	"github.com/almasatelier/shop-bridge/internal/wms"
)

// StateStore is the organization state collaborator (see internal/state).
type StateStore interface {
	Load(ctx context.Context, org string) (*state.Snapshot, error)
	Save(ctx context.Context, org string, blob *wms.Blob) error
}

// Publisher is the outbound event feed for one topic.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Notifier sends a message to a chat and returns its id.
type Notifier interface {
	Notify(ctx context.Context, chatID, text, parseMode string) (int64, error)
}

// Cache is best-effort: every error is ignored and treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}

// BridgeHandler serves the shop integration API on top of the org state blob.
type BridgeHandler struct {
	Store       StateStore
	Cache       Cache     // optional
	Created     Publisher // shop.order.created, optional
	Status      Publisher // shop.order.status, optional
	Notifier    Notifier  // nil when no bot token is configured
	DefaultChat string
	Secret      string // webhook secret; empty disables signature checks
	Service     string
}

func (h *BridgeHandler) Register(r *chi.Mux) {
	r.Get("/api/catalog", h.getCatalog)
	r.Get("/api/inventory", h.getInventory)
	r.Get("/api/orders", h.listOrders)
	r.Post("/api/shop/orders/webhook", h.orderWebhook)
	r.Post("/api/shop/orders/status", h.statusWebhook)
	r.Post("/api/telegram/notify", h.notify)
	r.Post("/api/finolog/sync", h.finologSync)
	r.Post("/api/echo", h.echo)
}

func orgParam(r *http.Request) string {
	if org := r.URL.Query().Get("org"); org != "" {
		return org
	}
	return "default"
}

// checkSignature enforces the webhook HMAC when a secret is configured.
// Returns false after writing the 401 response.
func (h *BridgeHandler) checkSignature(w http.ResponseWriter, r *http.Request, raw []byte) bool {
	if h.Secret == "" {
		return true
	}
	sig := r.Header.Get("X-Shop-Signature")
	if sig == "" {
		sig = r.Header.Get("X-Signature")
	}
	if !signature.Verify(raw, h.Secret, sig) {
		writeError(w, http.StatusUnauthorized, "invalid_signature")
		return false
	}
	return true
}

func (h *BridgeHandler) loadState(ctx context.Context, w http.ResponseWriter, org string) *state.Snapshot {
	snap, err := h.Store.Load(ctx, org)
	if errors.Is(err, state.ErrNotFound) {
		writeError(w, http.StatusNotFound, "state_not_found")
		return nil
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	return snap
}

func (h *BridgeHandler) orderWebhook(w http.ResponseWriter, r *http.Request) {
	org := orgParam(r)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.checkSignature(w, r, raw) {
		return
	}

	// Lenient body parse: garbage behaves like an empty order.
	var req wms.OrderWebhook
	_ = json.Unmarshal(raw, &req)

	ctx := r.Context()

	// Redelivery short-circuit: same external id within the idempotency TTL
	// returns the stored order id without touching state again.
	idemKey := ""
	if req.ExternalID != "" && h.Cache != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemOrder, org, req.ExternalID)
		if id, err := h.Cache.Get(ctx, idemKey); err == nil && id != "" {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "org": org, "id": id})
			return
		}
	}

	snap := h.loadState(ctx, w, org)
	if snap == nil {
		return
	}
	blob := &snap.Blob

	order := wms.BuildOrder(blob.Models, req, wms.NowISO())
	reserve := wms.BuildDiamondReserve(blob.Models, blob.RawItems, order)
	wms.ApplyReserve(blob.RawItems, reserve, +1)
	blob.Orders = append([]wms.Order{order}, blob.Orders...)

	if err := h.Store.Save(ctx, org, blob); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.Cache != nil {
		if idemKey != "" {
			_ = h.Cache.Set(ctx, idemKey, order.ID, redisx.TTLIdempotency)
		}
		_ = h.Cache.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, org, order.ID), order.Status, redisx.TTLStatusCache)
	}

	h.publishCreated(r, org, order)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "org": org, "id": order.ID})
}

func (h *BridgeHandler) statusWebhook(w http.ResponseWriter, r *http.Request) {
	org := orgParam(r)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.checkSignature(w, r, raw) {
		return
	}

	var req wms.StatusWebhook
	_ = json.Unmarshal(raw, &req)
	if req.ExternalID == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	ctx := r.Context()
	snap := h.loadState(ctx, w, org)
	if snap == nil {
		return
	}
	blob := &snap.Blob

	var order *wms.Order
	for i := range blob.Orders {
		key := blob.Orders[i].ExternalID
		if key == "" {
			key = blob.Orders[i].ID
		}
		if key == string(req.ExternalID) {
			order = &blob.Orders[i]
			break
		}
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order_not_found")
		return
	}

	mapped := wms.MapShopStatus(req.Status)
	prev := order.Status
	if mapped == wms.StatusCancelled {
		// Release the reservation if diamonds were only reserved; if they
		// were already consumed, run the consume mutation with sign -1,
		// which writes off both stock and reservation for the order again.
		reserve := wms.BuildDiamondReserve(blob.Models, blob.RawItems, *order)
		if order.ConsumedDiamonds {
			wms.ApplyConsume(blob.RawItems, reserve, -1)
		} else {
			wms.ApplyReserve(blob.RawItems, reserve, -1)
		}
	}
	order.Status = mapped
	order.UpdatedAt = wms.NowISO()

	if err := h.Store.Save(ctx, org, blob); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.Cache != nil {
		_ = h.Cache.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, org, order.ID), mapped, redisx.TTLStatusCache)
	}

	h.publishStatusChanged(r, org, *order, prev, mapped)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *BridgeHandler) getCatalog(w http.ResponseWriter, r *http.Request) {
	org := orgParam(r)
	ctx := r.Context()

	cacheKey := fmt.Sprintf(redisx.KeyCatalog, org)
	if h.Cache != nil {
		if body, err := h.Cache.Get(ctx, cacheKey); err == nil && body != "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(body))
			return
		}
	}

	snap := h.loadState(ctx, w, org)
	if snap == nil {
		return
	}
	resp := map[string]any{
		"ok":        true,
		"org":       org,
		"updatedAt": wms.FormatISO(snap.UpdatedAt),
		"products":  wms.BuildCatalog(&snap.Blob),
	}
	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.Cache != nil {
		_ = h.Cache.Set(ctx, cacheKey, string(body), redisx.TTLCatalog)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *BridgeHandler) getInventory(w http.ResponseWriter, r *http.Request) {
	org := orgParam(r)
	snap := h.loadState(r.Context(), w, org)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"org":       org,
		"updatedAt": wms.FormatISO(snap.UpdatedAt),
		"inventory": wms.BuildInventory(&snap.Blob),
	})
}

func (h *BridgeHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	org := orgParam(r)
	since := r.URL.Query().Get("since")
	snap := h.loadState(r.Context(), w, org)
	if snap == nil {
		return
	}
	orders := snap.Blob.Orders
	if since != "" {
		filtered := make([]wms.Order, 0, len(orders))
		for _, o := range orders {
			ts := o.UpdatedAt
			if ts == "" {
				ts = o.CreatedAt
			}
			if ts > since {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	if orders == nil {
		orders = []wms.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"org":    org,
		"count":  len(orders),
		"orders": orders,
	})
}

func (h *BridgeHandler) notify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChatID    wms.FlexString `json:"chatId"`
		Text      string         `json:"text"`
		ParseMode string         `json:"parse_mode"`
		ParseAlt  string         `json:"parseMode"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if h.Notifier == nil {
		writeError(w, http.StatusBadRequest, "TELEGRAM_BOT_TOKEN not configured")
		return
	}
	chat := string(body.ChatID)
	if chat == "" {
		chat = h.DefaultChat
	}
	if chat == "" {
		writeError(w, http.StatusBadRequest, "chatId is required")
		return
	}
	if body.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	mode := body.ParseMode
	if mode == "" {
		mode = body.ParseAlt
	}

	msgID, err := h.Notifier.Notify(r.Context(), chat, body.Text, mode)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": msgID})
}

// finologSync acknowledges manual sync triggers. The actual accounting push
// happens asynchronously in cmd/syncer off the order event feed.
func (h *BridgeHandler) finologSync(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "received": decodeAny(r)})
}

func (h *BridgeHandler) echo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "echo": decodeAny(r)})
}

// decodeAny reads the body as arbitrary JSON, null on garbage.
func decodeAny(r *http.Request) any {
	var v any
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return nil
	}
	return v
}

func (h *BridgeHandler) publishCreated(r *http.Request, org string, order wms.Order) {
	if h.Created == nil {
		return
	}
	currency := "KZT"
	if len(order.Lines) > 0 {
		currency = order.Lines[0].Currency
	}
	payload := wms.OrderCreatedPayload{
		Org:        org,
		OrderID:    order.ID,
		ExternalID: order.ExternalID,
		Customer:   string(order.Customer),
		Status:     order.Status,
		Lines:      order.Lines,
		Total:      order.Total(),
		Currency:   currency,
	}
	h.publish(h.Created, r, wms.EventOrderCreated, order.ID, kafkax.MustMarshal(payload))
}

func (h *BridgeHandler) publishStatusChanged(r *http.Request, org string, order wms.Order, from, to string) {
	if h.Status == nil {
		return
	}
	payload := wms.OrderStatusChangedPayload{
		Org:        org,
		OrderID:    order.ID,
		ExternalID: order.ExternalID,
		From:       from,
		To:         to,
	}
	h.publish(h.Status, r, wms.EventOrderStatusChanged, order.ID, kafkax.MustMarshal(payload))
}

func (h *BridgeHandler) publish(p Publisher, r *http.Request, eventType, orderID string, payload []byte) {
	ev := wms.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       middleware.GetReqID(r.Context()),
		CorrelationID: orderID,
		Payload:       payload,
	}
	p.Publish(wms.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
