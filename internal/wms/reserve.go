package wms

// CategoryDiamond is the only raw-material category tracked through the
// reservation ledger. Metal and findings are managed outside this path.
const CategoryDiamond = "Бриллиант"

// BuildDiamondReserve computes how much of each diamond raw item an order
// consumes, from the models' BOM and the order lines. Pure: inputs are not
// mutated. Lines whose model cannot be resolved contribute nothing.
//
// Cancellation recomputes this map from the blob's current models, so a BOM
// edited between order creation and cancellation shifts the release amounts.
// Known limitation inherited from the frontend's bookkeeping.
func BuildDiamondReserve(models []Model, rawItems []RawItem, o Order) map[string]float64 {
	bomByModel := make(map[string][]BOMEntry, len(models))
	for _, m := range models {
		bomByModel[m.ID] = m.BOM
	}
	catByItem := make(map[string]string, len(rawItems))
	for _, r := range rawItems {
		catByItem[r.ID] = r.Category
	}

	reserve := make(map[string]float64)
	for _, l := range o.Lines {
		for _, b := range bomByModel[l.ModelID] {
			cat, ok := catByItem[b.RawItemID]
			if !ok || cat != CategoryDiamond {
				continue
			}
			reserve[b.RawItemID] += float64(b.Qty) * lineQty(l)
		}
	}
	return reserve
}

// lineQty treats a zero quantity as one, matching order intake defaults.
func lineQty(l OrderLine) float64 {
	if l.Qty == 0 {
		return 1
	}
	return float64(l.Qty)
}

// ApplyReserve adds sign*qty to reservedQty for every raw item in the map.
// Sign +1 reserves on order creation, -1 releases on cancellation. Quantities
// clamp at zero instead of going negative.
func ApplyReserve(rawItems []RawItem, reserve map[string]float64, sign int) {
	for i := range rawItems {
		q := reserve[rawItems[i].ID]
		if q == 0 {
			continue
		}
		rawItems[i].ReservedQty = clampZero(rawItems[i].ReservedQty + float64(sign)*q)
	}
}

// ApplyConsume moves reserved material through physical stock: both stockQty
// and reservedQty shift by sign*qty. Sign -1 consumes; +1 reverses a
// consumption. Clamped at zero like ApplyReserve.
func ApplyConsume(rawItems []RawItem, reserve map[string]float64, sign int) {
	for i := range rawItems {
		q := reserve[rawItems[i].ID]
		if q == 0 {
			continue
		}
		rawItems[i].StockQty = clampZero(rawItems[i].StockQty + float64(sign)*q)
		rawItems[i].ReservedQty = clampZero(rawItems[i].ReservedQty + float64(sign)*q)
	}
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
