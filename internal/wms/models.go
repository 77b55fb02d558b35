// Package wms holds the typed view of the organization state blob shared with
// the WMS frontend, plus the order intake and diamond reservation core.
//
// The blob is persisted as one whole JSON document per organization and is
// rewritten in full on every save. The frontend owns fields this bridge never
// reads, so every record that round-trips through here keeps unknown JSON keys
// in an extras map and merges them back on marshal (see json.go).
package wms

import (
	"encoding/json"
	"time"
)

// Blob is one organization's full domain state.
type Blob struct {
	Models       []Model             `json:"models"`
	RawItems     []RawItem           `json:"rawItems"`
	JewelryStock []JewelryStockEntry `json:"jewelryStock"`
	Orders       []Order             `json:"orders"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Model is a jewelry product model with its bill of materials.
type Model struct {
	ID            string     `json:"id"`
	SKU           string     `json:"sku,omitempty"`
	Name          string     `json:"name"`
	Type          string     `json:"type,omitempty"`
	Active        *bool      `json:"active,omitempty"`
	BOM           []BOMEntry `json:"bom,omitempty"`
	Variants      []Variant  `json:"variants,omitempty"`
	DefaultMetal  string     `json:"defaultMetal,omitempty"`
	DefaultColor  string     `json:"defaultColor,omitempty"`
	AllowedMetals []string   `json:"allowedMetals,omitempty"`
	SalesPrice    FlexNumber `json:"salesPrice,omitempty"`
	SalesCurrency string     `json:"salesCurrency,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// IsActive reports whether the model is sellable; absent means active.
func (m Model) IsActive() bool { return m.Active == nil || *m.Active }

// BOMEntry is one raw-material requirement per unit produced.
type BOMEntry struct {
	RawItemID string     `json:"rawItemId"`
	Qty       FlexNumber `json:"qty"`
}

// Variant is a concrete metal/color execution of a model.
type Variant struct {
	ID            string     `json:"id,omitempty"`
	Metal         string     `json:"metal,omitempty"`
	Color         string     `json:"color,omitempty"`
	SalesPrice    FlexNumber `json:"salesPrice,omitempty"`
	SalesCurrency string     `json:"salesCurrency,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// RawItem is a raw-material stock record. ReservedQty is material promised to
// open orders; StockQty is physical quantity on hand, decremented only at
// consumption time. Both are clamped at zero by the ledger mutators.
type RawItem struct {
	ID          string  `json:"id"`
	Category    string  `json:"category,omitempty"`
	StockQty    float64 `json:"stockQty"`
	ReservedQty float64 `json:"reservedQty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// JewelryStockEntry is finished-goods stock for one model/metal/color combo.
type JewelryStockEntry struct {
	ModelID string     `json:"modelId"`
	Metal   string     `json:"metal,omitempty"`
	Color   string     `json:"color,omitempty"`
	Qty     FlexNumber `json:"qty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Order is a customer order living inside the blob. ExternalID correlates to
// the source shop platform and is the join key for status updates; the
// internal ID is generated here and never changes.
type Order struct {
	ID               string            `json:"id"`
	ExternalID       string            `json:"externalId,omitempty"`
	Type             string            `json:"type,omitempty"`
	Customer         FlexString        `json:"customer"`
	CreatedAt        string            `json:"createdAt,omitempty"`
	UpdatedAt        string            `json:"updatedAt,omitempty"`
	Status           string            `json:"status"`
	Lines            []OrderLine       `json:"lines"`
	Payments         []json.RawMessage `json:"payments"`
	ProduceFromRaw   bool              `json:"produceFromRaw"`
	Note             string            `json:"note,omitempty"`
	ConsumedDiamonds bool              `json:"consumedDiamonds,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// OrderLine is one order position.
type OrderLine struct {
	ID       string     `json:"id"`
	ModelID  string     `json:"modelId,omitempty"`
	Metal    string     `json:"metal"`
	Color    string     `json:"color"`
	Qty      FlexNumber `json:"qty"`
	Price    FlexNumber `json:"price"`
	Currency string     `json:"currency"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Total is the order's line total (price * qty summed).
func (o Order) Total() float64 {
	var sum float64
	for _, l := range o.Lines {
		sum += float64(l.Price) * float64(l.Qty)
	}
	return sum
}

// isoMillis matches the timestamp format the WMS frontend writes into the
// blob. Keeping it lets "since" filters stay simple string comparisons.
const isoMillis = "2006-01-02T15:04:05.000Z"

// NowISO returns the current UTC time in blob timestamp format.
func NowISO() string { return time.Now().UTC().Format(isoMillis) }

// FormatISO renders t in blob timestamp format.
func FormatISO(t time.Time) string { return t.UTC().Format(isoMillis) }
