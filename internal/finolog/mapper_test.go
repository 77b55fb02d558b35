package finolog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/almasatelier/shop-bridge/internal/wms"
)

func TestFromOrderCreated(t *testing.T) {
	tx := FromOrderCreated(wms.OrderCreatedPayload{
		Org:        "default",
		OrderID:    "o1",
		ExternalID: "shop-42",
		Customer:   "Айгерим",
		Total:      150000,
		Currency:   "KZT",
	})

	assert.Equal(t, 150000.0, tx.Amount)
	assert.Equal(t, "KZT", tx.Currency)
	assert.Equal(t, "o1", tx.Reference)
	assert.Equal(t, "Продажа: заказ shop-42 (Айгерим)", tx.Description)
	assert.NotEmpty(t, tx.Date)
}

func TestFromOrderCreatedFallsBackToOrderID(t *testing.T) {
	tx := FromOrderCreated(wms.OrderCreatedPayload{OrderID: "o1"})
	assert.Equal(t, "Продажа: заказ o1", tx.Description)
}
