package wms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogExplicitVariants(t *testing.T) {
	blob := &Blob{
		Models: []Model{{
			ID: "m1", SKU: "R-100", Name: "Кольцо", Type: "Кольцо",
			SalesPrice: 100000, SalesCurrency: "KZT",
			Variants: []Variant{
				{ID: "v1", Metal: "Золото", Color: "Белый", SalesPrice: 120000},
				{Metal: "Серебро", Color: "Белый"}, // price falls back to model
			},
		}},
		JewelryStock: []JewelryStockEntry{
			{ModelID: "m1", Metal: "Золото", Color: "Белый", Qty: 2},
			{ModelID: "m1", Metal: "Золото", Color: "Белый", Qty: 1},
			{ModelID: "m1", Metal: "Серебро", Color: "Белый", Qty: 5},
			{ModelID: "other", Metal: "Золото", Color: "Белый", Qty: 9},
		},
	}

	products := BuildCatalog(blob)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "R-100", p.SKU)
	assert.True(t, p.Active)
	require.Len(t, p.Variants, 2)

	gold := p.Variants[0]
	assert.Equal(t, "v1", gold.ID)
	assert.Equal(t, 120000.0, gold.Price)
	assert.Equal(t, 3.0, gold.StockQty) // summed across entries

	silver := p.Variants[1]
	assert.Equal(t, "var-m1-Серебро-Белый", silver.ID)
	assert.Equal(t, 100000.0, silver.Price)
	assert.Equal(t, "KZT", silver.Currency)
	assert.Equal(t, 5.0, silver.StockQty)
}

func TestBuildCatalogFallbackVariants(t *testing.T) {
	blob := &Blob{Models: []Model{{ID: "m1", Name: "Кольцо", SalesPrice: 50000}}}

	products := BuildCatalog(blob)
	require.Len(t, products, 1)
	variants := products[0].Variants
	require.Len(t, variants, 2) // gold + silver x default color

	assert.Equal(t, "virt-m1-Золото-Белый", variants[0].ID)
	assert.Equal(t, "Золото", variants[0].Metal)
	assert.Equal(t, "Белый", variants[0].Color)
	assert.Equal(t, 50000.0, variants[0].Price)
	assert.Equal(t, "Серебро", variants[1].Metal)
}

func TestBuildCatalogAllowedMetals(t *testing.T) {
	blob := &Blob{Models: []Model{{
		ID: "m1", Name: "Кольцо",
		AllowedMetals: []string{"Платина"},
		DefaultColor:  "Жёлтый",
	}}}

	products := BuildCatalog(blob)
	require.Len(t, products[0].Variants, 1)
	assert.Equal(t, "Платина", products[0].Variants[0].Metal)
	assert.Equal(t, "Жёлтый", products[0].Variants[0].Color)
}

func TestBuildInventory(t *testing.T) {
	blob := &Blob{JewelryStock: []JewelryStockEntry{
		{ModelID: "m1", Metal: "Золото", Color: "Белый", Qty: 2},
		{ModelID: "m2", Metal: "Серебро", Color: "Белый", Qty: 0},
	}}

	inv := BuildInventory(blob)
	require.Len(t, inv, 2)
	assert.Equal(t, InventoryEntry{ModelID: "m1", Metal: "Золото", Color: "Белый", Qty: 2}, inv[0])
	assert.Equal(t, 0.0, inv[1].Qty)
}
