// Package finolog maps shop orders onto accounting transaction drafts for the
// Finolog sync. The API push itself is not wired yet; the syncer logs the
// drafts it would send.
package finolog

import (
	"fmt"

	"github.com/almasatelier/shop-bridge/internal/wms"
)

// Transaction is a draft income record for one shop order.
type Transaction struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"value"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Reference   string  `json:"reference"` // bridge order id
}

// FromOrderCreated builds the income draft for a freshly ingested order.
func FromOrderCreated(p wms.OrderCreatedPayload) Transaction {
	ref := p.ExternalID
	if ref == "" {
		ref = p.OrderID
	}
	desc := fmt.Sprintf("Продажа: заказ %s", ref)
	if p.Customer != "" {
		desc += fmt.Sprintf(" (%s)", p.Customer)
	}
	return Transaction{
		Date:        wms.NowISO(),
		Amount:      p.Total,
		Currency:    p.Currency,
		Description: desc,
		Reference:   p.OrderID,
	}
}
