package wms

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// OrderTypeCustomer marks orders that arrived from the shop, as opposed to
// production orders the frontend creates itself.
const OrderTypeCustomer = "Клиентский"

// OrderWebhook is the inbound order payload from the shop platform.
type OrderWebhook struct {
	ExternalID     FlexString    `json:"externalId"`
	Customer       FlexString    `json:"customer"`
	Note           string        `json:"note"`
	ProduceFromRaw *bool         `json:"produceFromRaw"`
	Lines          []WebhookLine `json:"lines"`
}

// WebhookLine is one inbound order position. Model identification is loose on
// purpose: platforms rarely know WMS model ids, so sku and name are accepted.
type WebhookLine struct {
	ModelID  FlexString `json:"modelId"`
	SKU      string     `json:"sku"`
	Name     string     `json:"name"`
	Metal    string     `json:"metal"`
	Color    string     `json:"color"`
	Qty      FlexNumber `json:"qty"`
	Price    FlexNumber `json:"price"`
	Currency string     `json:"currency"`
}

// StatusWebhook is the inbound status-change payload. Both fields required.
type StatusWebhook struct {
	ExternalID FlexString `json:"externalId"`
	Status     string     `json:"status"`
}

// BuildOrder constructs a new WMS order from a shop webhook. The order starts
// in StatusNew; reservation happens separately from the returned record.
func BuildOrder(models []Model, req OrderWebhook, now string) Order {
	lines := make([]OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, OrderLine{
			ID:       uuid.NewString(),
			ModelID:  ResolveModelID(models, l),
			Metal:    l.Metal,
			Color:    l.Color,
			Qty:      FlexNumber(ClampQty(float64(l.Qty))),
			Price:    l.Price,
			Currency: DefaultCurrency(l.Currency),
		})
	}
	return Order{
		ID:             uuid.NewString(),
		ExternalID:     string(req.ExternalID),
		Type:           OrderTypeCustomer,
		Customer:       req.Customer,
		CreatedAt:      now,
		UpdatedAt:      now,
		Status:         StatusNew,
		Lines:          lines,
		Payments:       []json.RawMessage{},
		ProduceFromRaw: req.ProduceFromRaw == nil || *req.ProduceFromRaw,
		Note:           req.Note,
	}
}

// ResolveModelID maps a webhook line onto a catalog model: explicit id, then
// exact sku match, then case-insensitive substring match on the name, then the
// first model in the catalog. Empty only when the catalog itself is empty.
func ResolveModelID(models []Model, l WebhookLine) string {
	if l.ModelID != "" {
		return string(l.ModelID)
	}
	if l.SKU != "" {
		for _, m := range models {
			if strings.EqualFold(m.SKU, l.SKU) {
				return m.ID
			}
		}
	}
	if l.Name != "" {
		needle := strings.ToLower(l.Name)
		for _, m := range models {
			if strings.Contains(strings.ToLower(m.Name), needle) {
				return m.ID
			}
		}
	}
	if len(models) > 0 {
		return models[0].ID
	}
	return ""
}

// ClampQty normalizes an inbound line quantity: anything below one (including
// failed numeric coercion, which lands as zero) becomes one.
func ClampQty(q float64) float64 {
	if q < 1 {
		return 1
	}
	return q
}

// DefaultCurrency fills the shop's home currency when the platform omits one.
func DefaultCurrency(c string) string {
	if c == "" {
		return "KZT"
	}
	return c
}
