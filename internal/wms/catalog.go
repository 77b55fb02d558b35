package wms

import "fmt"

// CatalogProduct is the storefront view of a model.
type CatalogProduct struct {
	ID       string           `json:"id"`
	SKU      string           `json:"sku,omitempty"`
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Active   bool             `json:"active"`
	Variants []CatalogVariant `json:"variants"`
}

// CatalogVariant is one sellable metal/color execution with live stock.
type CatalogVariant struct {
	ID       string  `json:"id"`
	Metal    string  `json:"metal"`
	Color    string  `json:"color"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	StockQty float64 `json:"stockQty"`
}

// InventoryEntry is the flattened finished-goods stock view.
type InventoryEntry struct {
	ModelID string  `json:"modelId"`
	Metal   string  `json:"metal"`
	Color   string  `json:"color"`
	Qty     float64 `json:"qty"`
}

// BuildCatalog projects the blob's models and jewelry stock into the product
// list served to the shop. Models without explicit variants get a synthesized
// metal/color grid so the storefront always has something to sell.
func BuildCatalog(b *Blob) []CatalogProduct {
	products := make([]CatalogProduct, 0, len(b.Models))
	for _, m := range b.Models {
		variants := m.Variants
		if len(variants) == 0 {
			variants = fallbackVariants(m)
		}
		list := make([]CatalogVariant, 0, len(variants))
		for _, v := range variants {
			metal := firstNonEmpty(v.Metal, m.DefaultMetal)
			color := firstNonEmpty(v.Color, m.DefaultColor)
			id := v.ID
			if id == "" {
				id = fmt.Sprintf("var-%s-%s-%s", m.ID, firstNonEmpty(metal, "metal"), firstNonEmpty(color, "color"))
			}
			list = append(list, CatalogVariant{
				ID:       id,
				Metal:    firstNonEmpty(metal, "Золото"),
				Color:    firstNonEmpty(color, "Белый"),
				Price:    firstNonZero(float64(v.SalesPrice), float64(m.SalesPrice)),
				Currency: firstNonEmpty(v.SalesCurrency, m.SalesCurrency, "KZT"),
				StockQty: sumStock(b.JewelryStock, m.ID, metal, color),
			})
		}
		products = append(products, CatalogProduct{
			ID:       m.ID,
			SKU:      m.SKU,
			Name:     m.Name,
			Type:     m.Type,
			Active:   m.IsActive(),
			Variants: list,
		})
	}
	return products
}

// BuildInventory flattens jewelry stock into the export view.
func BuildInventory(b *Blob) []InventoryEntry {
	out := make([]InventoryEntry, 0, len(b.JewelryStock))
	for _, j := range b.JewelryStock {
		out = append(out, InventoryEntry{
			ModelID: j.ModelID,
			Metal:   j.Metal,
			Color:   j.Color,
			Qty:     float64(j.Qty),
		})
	}
	return out
}

// fallbackVariants synthesizes the metal/color grid for models that never had
// variants configured: allowed metals (or gold/silver) times the default color.
func fallbackVariants(m Model) []Variant {
	metals := m.AllowedMetals
	if len(metals) == 0 {
		metals = []string{firstNonEmpty(m.DefaultMetal, "Золото"), "Серебро"}
	}
	colors := []string{firstNonEmpty(m.DefaultColor, "Белый")}
	list := make([]Variant, 0, len(metals)*len(colors))
	for _, metal := range metals {
		for _, color := range colors {
			list = append(list, Variant{
				ID:            fmt.Sprintf("virt-%s-%s-%s", m.ID, metal, color),
				Metal:         metal,
				Color:         color,
				SalesPrice:    m.SalesPrice,
				SalesCurrency: firstNonEmpty(m.SalesCurrency, "KZT"),
			})
		}
	}
	return list
}

func sumStock(stock []JewelryStockEntry, modelID, metal, color string) float64 {
	var sum float64
	for _, j := range stock {
		if j.ModelID == modelID && j.Metal == metal && j.Color == color {
			sum += float64(j.Qty)
		}
	}
	return sum
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
