package catalog

import (
	"fmt"
	"strings"
)

// MenuText renders the whole menu as plain text. The output is deterministic
// and is used both to ground the generator and as the fallback reply when
// the interactive menu isn't showing.
func (c *Catalog) MenuText() string {
	var b strings.Builder
	for i, cat := range c.order {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(cat[:1])+cat[1:])
		for _, it := range c.items[cat] {
			fmt.Fprintf(&b, "- %s", it.Name)
			switch {
			case len(it.Sizes) > 0:
				parts := make([]string, 0, len(it.Sizes))
				for _, s := range it.Sizes {
					parts = append(parts, fmt.Sprintf("%s $%.2f", OptionLabel(s), s.Price))
				}
				fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
			case it.Price != nil:
				fmt.Fprintf(&b, " ($%.2f)", *it.Price)
			}
			if it.Description != "" {
				fmt.Fprintf(&b, ": %s", it.Description)
			}
			b.WriteString("\n")
			if len(it.ProteinOptions) > 0 {
				opts := make([]string, 0, len(it.ProteinOptions))
				for _, p := range it.ProteinOptions {
					opts = append(opts, fmt.Sprintf("%s +$%.2f", p.Name, p.PriceAdjustment))
				}
				fmt.Fprintf(&b, "  protein: %s\n", strings.Join(opts, ", "))
			}
			if len(it.AddOns) > 0 {
				opts := make([]string, 0, len(it.AddOns))
				for _, a := range it.AddOns {
					opts = append(opts, fmt.Sprintf("%s +$%.2f", a.Name, a.Price))
				}
				fmt.Fprintf(&b, "  add-ons: %s\n", strings.Join(opts, ", "))
			}
		}
	}
	if c.glutenFree.Available {
		fmt.Fprintf(&b, "\nGluten-free crust available (+$%.2f).\n", c.glutenFree.PriceAdjustment)
	}
	return b.String()
}

// Data returns the menu grouped by category for clients that render the
// interactive menu themselves.
func (c *Catalog) Data() map[string]any {
	out := make(map[string]any, len(c.order)+1)
	for _, cat := range c.order {
		out[cat] = c.Items(cat)
	}
	out["gluten_free"] = c.glutenFree
	return out
}
