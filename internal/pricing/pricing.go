// Package pricing computes order totals against the catalog.
//
// Pricing is pure: the same catalog and items always give the same result.
// It fails fast on the first line item it cannot resolve and never returns
// a partial total.
package pricing

import (
	"fmt"
	"strings"

	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

// ErrorKind classifies a pricing failure.
type ErrorKind string

const (
	UnknownCategory ErrorKind = "unknown_category"
	ItemNotFound    ErrorKind = "item_not_found"
	InvalidSize     ErrorKind = "invalid_size"
	MissingPrice    ErrorKind = "missing_price"
)

// Error is a catalog resolution failure. Its message is the human-readable
// reason shown in the summary's total line.
type Error struct {
	Kind ErrorKind
	Item string
	Size string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownCategory:
		return "Unknown item category: " + e.Item
	case ItemNotFound:
		return "Item not found in menu: " + e.Item
	case InvalidSize:
		return fmt.Sprintf("Invalid or missing size for %s: %s", e.Item, e.Size)
	case MissingPrice:
		return "Price information missing for drink: " + e.Item
	}
	return "pricing failed for " + e.Item
}

// Line is the priced form of one line item.
type Line struct {
	Item     domain.LineItem
	Unit     float64 // base plus adjustments
	Quantity int
	Total    float64
}

// Breakdown is a fully priced order.
type Breakdown struct {
	Lines []Line
	Total float64
}

// Price returns the order total.
func Price(cat *catalog.Catalog, items []domain.LineItem) (float64, error) {
	b, err := Quote(cat, items)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// Quote prices every line item and returns the per-line breakdown.
func Quote(cat *catalog.Catalog, items []domain.LineItem) (*Breakdown, error) {
	b := &Breakdown{Lines: make([]Line, 0, len(items))}
	for _, li := range items {
		unit, err := unitPrice(cat, li)
		if err != nil {
			return nil, err
		}
		qty := li.Qty()
		line := Line{Item: li, Unit: unit, Quantity: qty, Total: unit * float64(qty)}
		b.Lines = append(b.Lines, line)
		b.Total += line.Total
	}
	return b, nil
}

func unitPrice(cat *catalog.Catalog, li domain.LineItem) (float64, error) {
	category, ok := catalog.ResolveCategory(li)
	if !ok {
		return 0, &Error{Kind: UnknownCategory, Item: li.Name}
	}

	mi, ok := cat.Find(category, li.ID)
	if !ok {
		return 0, &Error{Kind: ItemNotFound, Item: li.Name}
	}

	if sized(category, mi) {
		return sizedPrice(cat, category, mi, li)
	}

	if mi.Price == nil {
		return 0, &Error{Kind: MissingPrice, Item: li.Name}
	}
	return *mi.Price, nil
}

// sized reports whether an item is priced by size. Pizzas and pastas always
// are; other non-drink categories are when the item lists sizes.
func sized(category string, mi *domain.MenuItem) bool {
	switch category {
	case domain.CategoryPizzas, domain.CategoryPastas:
		return true
	case domain.CategoryDrinks:
		return false
	}
	return len(mi.Sizes) > 0
}

func sizedPrice(cat *catalog.Catalog, category string, mi *domain.MenuItem, li domain.LineItem) (float64, error) {
	var (
		price float64
		found bool
	)
	for _, s := range mi.Sizes {
		if li.Size != "" && strings.EqualFold(s.Size, li.Size) {
			price, found = s.Price, true
			break
		}
	}
	if !found {
		return 0, &Error{Kind: InvalidSize, Item: li.Name, Size: li.Size}
	}

	// Adjustments apply in a fixed order: crust, protein, add-ons.
	if gf := cat.GlutenFree(); li.Crust == domain.CrustGlutenFree && gf.Available {
		price += gf.PriceAdjustment
	}

	if li.Protein != "" {
		for _, p := range mi.ProteinOptions {
			if p.Name == li.Protein {
				price += p.PriceAdjustment
				break
			}
		}
	}

	if category == domain.CategoryPastas {
		for _, name := range li.AddOns {
			for _, a := range mi.AddOns {
				if a.Name == name {
					price += a.Price
					break
				}
			}
		}
	}

	return price, nil
}
