package wms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() ([]Model, []RawItem) {
	models := []Model{
		{ID: "m1", SKU: "R-100", Name: "Кольцо Классика", BOM: []BOMEntry{
			{RawItemID: "D1", Qty: 1},
			{RawItemID: "G1", Qty: 5},
		}},
		{ID: "m2", SKU: "E-200", Name: "Серьги", BOM: []BOMEntry{
			{RawItemID: "D1", Qty: 2},
			{RawItemID: "D2", Qty: 0.5},
		}},
	}
	rawItems := []RawItem{
		{ID: "D1", Category: CategoryDiamond, StockQty: 10, ReservedQty: 1},
		{ID: "D2", Category: CategoryDiamond, StockQty: 4, ReservedQty: 0},
		{ID: "G1", Category: "Золото", StockQty: 100, ReservedQty: 0},
	}
	return models, rawItems
}

func TestBuildDiamondReserve(t *testing.T) {
	models, rawItems := testCatalog()
	order := Order{Lines: []OrderLine{
		{ModelID: "m1", Qty: 2},
		{ModelID: "m2", Qty: 1},
	}}

	reserve := BuildDiamondReserve(models, rawItems, order)

	// m1: 1 diamond x2, m2: 2 diamonds x1 -> D1=4; m2: 0.5 of D2
	assert.Equal(t, map[string]float64{"D1": 4, "D2": 0.5}, reserve)
	// gold is not reservation-tracked
	assert.NotContains(t, reserve, "G1")
}

func TestBuildDiamondReserveDeterministic(t *testing.T) {
	models, rawItems := testCatalog()
	order := Order{Lines: []OrderLine{{ModelID: "m2", Qty: 3}}}

	first := BuildDiamondReserve(models, rawItems, order)
	second := BuildDiamondReserve(models, rawItems, order)
	assert.Equal(t, first, second)
}

func TestBuildDiamondReserveUnresolvedModel(t *testing.T) {
	models, rawItems := testCatalog()
	order := Order{Lines: []OrderLine{{ModelID: "", Qty: 2}, {ModelID: "ghost", Qty: 1}}}

	reserve := BuildDiamondReserve(models, rawItems, order)
	assert.Empty(t, reserve)
}

func TestBuildDiamondReserveZeroQtyLineCountsAsOne(t *testing.T) {
	models, rawItems := testCatalog()
	order := Order{Lines: []OrderLine{{ModelID: "m1", Qty: 0}}}

	reserve := BuildDiamondReserve(models, rawItems, order)
	assert.Equal(t, map[string]float64{"D1": 1}, reserve)
}

func TestBuildDiamondReserveDoesNotMutateInputs(t *testing.T) {
	models, rawItems := testCatalog()
	order := Order{Lines: []OrderLine{{ModelID: "m1", Qty: 2}}}

	_ = BuildDiamondReserve(models, rawItems, order)

	require.Equal(t, 1.0, rawItems[0].ReservedQty)
	require.Equal(t, 10.0, rawItems[0].StockQty)
}

func TestApplyReserveRoundTrip(t *testing.T) {
	models, rawItems := testCatalog()
	order := Order{Lines: []OrderLine{{ModelID: "m1", Qty: 2}, {ModelID: "m2", Qty: 1}}}
	reserve := BuildDiamondReserve(models, rawItems, order)

	before := make([]RawItem, len(rawItems))
	copy(before, rawItems)

	ApplyReserve(rawItems, reserve, +1)
	assert.Equal(t, 5.0, rawItems[0].ReservedQty) // 1 + 4
	assert.Equal(t, 0.5, rawItems[1].ReservedQty)

	ApplyReserve(rawItems, reserve, -1)
	assert.Equal(t, before, rawItems)
}

func TestApplyConsumeMovesStockAndReservation(t *testing.T) {
	models, rawItems := testCatalog()
	order := Order{Lines: []OrderLine{{ModelID: "m1", Qty: 2}}}
	reserve := BuildDiamondReserve(models, rawItems, order)

	ApplyReserve(rawItems, reserve, +1)
	ApplyConsume(rawItems, reserve, -1)

	assert.Equal(t, 8.0, rawItems[0].StockQty)    // 10 - 2
	assert.Equal(t, 1.0, rawItems[0].ReservedQty) // back to initial 1
}

func TestApplyClampsAtZero(t *testing.T) {
	rawItems := []RawItem{{ID: "D1", Category: CategoryDiamond, StockQty: 1, ReservedQty: 0}}
	reserve := map[string]float64{"D1": 5}

	ApplyReserve(rawItems, reserve, -1)
	assert.Equal(t, 0.0, rawItems[0].ReservedQty)

	ApplyConsume(rawItems, reserve, -1)
	assert.Equal(t, 0.0, rawItems[0].StockQty)
	assert.Equal(t, 0.0, rawItems[0].ReservedQty)
}

func TestApplyIgnoresItemsOutsideMap(t *testing.T) {
	_, rawItems := testCatalog()
	ApplyReserve(rawItems, map[string]float64{"D2": 2}, +1)

	assert.Equal(t, 1.0, rawItems[0].ReservedQty)
	assert.Equal(t, 2.0, rawItems[1].ReservedQty)
	assert.Equal(t, 0.0, rawItems[2].ReservedQty)
}
