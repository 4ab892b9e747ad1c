// Package summary renders the human-readable order summary shown to the
// customer. Rendering is deterministic and has no side effects.
package summary

import (
	"fmt"
	"strings"

	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/pricing"
)

// noRequest are the special-request values displayed as "None".
var noRequest = map[string]bool{
	"no":                  true,
	"none":                true,
	"n/a":                 true,
	"no special requests": true,
}

// IsNoRequest reports whether a collected special request means "nothing".
func IsNoRequest(special string) bool {
	return noRequest[strings.ToLower(strings.TrimSpace(special))]
}

// SpecialDisplay returns the display form of a collected special request.
func SpecialDisplay(special string) string {
	if IsNoRequest(special) {
		return "None"
	}
	return special
}

// Render builds the summary: item lines, the special request when one was
// collected, and the total when withPrice is set. A pricing failure shows
// its reason in place of the total.
func Render(cat *catalog.Catalog, order domain.Order, special *string, withPrice bool) string {
	var b strings.Builder

	if len(order.Items) == 0 {
		b.WriteString("**Current Items:** None")
	} else {
		b.WriteString("**Current Items:**")
		for _, li := range order.Items {
			b.WriteString("\n")
			b.WriteString(ItemLine(cat, li))
		}
	}

	if special != nil {
		fmt.Fprintf(&b, "\n**Special requests:** %s", SpecialDisplay(*special))
	}

	if withPrice {
		b.WriteString("\n")
		b.WriteString(TotalLine(cat, order.Items))
	}

	return b.String()
}

// ItemLine renders one "- 2x Margherita (MEDIUM)" line.
func ItemLine(cat *catalog.Catalog, li domain.LineItem) string {
	line := fmt.Sprintf("- %dx %s", li.Qty(), li.Name)
	if li.Size != "" {
		line += fmt.Sprintf(" (%s)", strings.ToUpper(cat.DisplaySize(li)))
	}
	return line
}

// TotalLine renders the estimated total or the reason it is unavailable.
func TotalLine(cat *catalog.Catalog, items []domain.LineItem) string {
	total, err := pricing.Price(cat, items)
	if err != nil {
		return fmt.Sprintf("**Total price:** Could not be calculated (%s)", err)
	}
	return fmt.Sprintf("**Estimated Total:** $%.2f", total)
}
