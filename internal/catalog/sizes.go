package catalog

import (
	"regexp"
	"strings"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

// canonical display forms of the size tokens used by the menu.
var sizeLabels = map[string]string{
	"s":       "Small",
	"small":   "Small",
	"m":       "Medium",
	"medium":  "Medium",
	"l":       "Large",
	"large":   "Large",
	"single":  "Single",
	"double":  "Double",
	"regular": "Regular",
	"500ml":   "500ml",
	"1l":      "1 Liter",
}

// SizeLabel returns the canonical display form of a size token.
// Unknown tokens are returned trimmed, first letter upper-cased.
func SizeLabel(token string) string {
	t := strings.TrimSpace(token)
	if l, ok := sizeLabels[strings.ToLower(t)]; ok {
		return l
	}
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

// OptionLabel returns the display label for a size option. A label set in
// the catalog wins over the canonical form.
func OptionLabel(opt domain.SizeOption) string {
	if opt.Label != "" {
		return opt.Label
	}
	return SizeLabel(opt.Size)
}

// SizeLabels lists the display labels of an item's sizes, in catalog order.
func SizeLabels(mi *domain.MenuItem) []string {
	out := make([]string, 0, len(mi.Sizes))
	for _, s := range mi.Sizes {
		out = append(out, OptionLabel(s))
	}
	return out
}

// DisplaySize returns the display label for the size on a line item,
// looking up a catalog label when the item resolves.
func (c *Catalog) DisplaySize(li domain.LineItem) string {
	if mi, ok := c.Resolve(li); ok {
		for _, s := range mi.Sizes {
			if strings.EqualFold(s.Size, li.Size) {
				return OptionLabel(s)
			}
		}
	}
	return SizeLabel(li.Size)
}

// sizePattern matches a size token or its display name as a whole word.
// Apostrophes count as word characters so "it's" never reads as "s".
func sizePattern(opt domain.SizeOption) *regexp.Regexp {
	alts := []string{regexp.QuoteMeta(strings.ToLower(opt.Size))}
	if label := strings.ToLower(OptionLabel(opt)); label != alts[0] {
		alts = append(alts, regexp.QuoteMeta(label))
	}
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN'])(?:` + strings.Join(alts, "|") + `)(?:$|[^\pL\pN'])`)
}

// MatchSize finds the size option of mi named earliest in the utterance.
// Patterns for catalog items are compiled once at load.
func (c *Catalog) MatchSize(mi *domain.MenuItem, utterance string) (domain.SizeOption, bool) {
	var (
		best  domain.SizeOption
		at    = -1
		found bool
	)
	for _, opt := range mi.Sizes {
		re, ok := c.sizeRes[sizeKey{mi.Category, mi.ID, strings.ToLower(opt.Size)}]
		if !ok {
			re = sizePattern(opt)
		}
		loc := re.FindStringIndex(utterance)
		if loc == nil {
			continue
		}
		if !found || loc[0] < at {
			best, at, found = opt, loc[0], true
		}
	}
	return best, found
}
