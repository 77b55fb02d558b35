package wms

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "ShopOrderCreated"
	EventOrderStatusChanged = "ShopOrderStatusChanged"
)

// Envelope wraps every event published to the order feed.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	Org        string      `json:"org"`
	OrderID    string      `json:"order_id"`
	ExternalID string      `json:"external_id,omitempty"`
	Customer   string      `json:"customer,omitempty"`
	Status     string      `json:"status"`
	Lines      []OrderLine `json:"lines"`
	Total      float64     `json:"total"`
	Currency   string      `json:"currency"`
}

type OrderStatusChangedPayload struct {
	Org        string `json:"org"`
	OrderID    string `json:"order_id"`
	ExternalID string `json:"external_id,omitempty"`
	From       string `json:"from"`
	To         string `json:"to"`
}
