package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

var (
	leadingQty  = regexp.MustCompile(`^\s*(\d+)\s*x?\s+`)
	trailingQty = regexp.MustCompile(`\s+x\s*(\d+)\s*$`)
	glutenFree  = regexp.MustCompile(`(?i)\bgluten[- ]free\b`)
)

// Cart collects menu picks on clients without an interactive menu and
// turns them into the finalize message the engine expects.
type Cart struct {
	cat *catalog.Catalog

	mu    sync.Mutex
	items []domain.LineItem
}

// NewCart creates an empty cart over the catalog.
func NewCart(cat *catalog.Catalog) *Cart {
	return &Cart{cat: cat}
}

// Add parses a pick such as "2 margherita gluten-free with prosciutto" or
// "penne arrabbiata with shrimp and olives x2" and adds it to the cart.
func (c *Cart) Add(pick string) (domain.LineItem, error) {
	qty := 1
	text := strings.TrimSpace(pick)
	if m := leadingQty.FindStringSubmatch(text); m != nil {
		qty, _ = strconv.Atoi(m[1])
		text = text[len(m[0]):]
	} else if m := trailingQty.FindStringSubmatch(text); m != nil {
		qty, _ = strconv.Atoi(m[1])
		text = text[:len(text)-len(m[0])]
	}
	if qty < 1 {
		return domain.LineItem{}, fmt.Errorf("quantity must be at least 1")
	}

	mi, ok := c.cat.FindByName(text)
	if !ok {
		return domain.LineItem{}, fmt.Errorf("%w: no menu item in %q", domain.ErrNotFound, pick)
	}

	li := domain.LineItem{ID: mi.ID, Name: mi.Name, Category: mi.Category, Quantity: qty}
	lower := strings.ToLower(text)

	if mi.Category == domain.CategoryPizzas && glutenFree.MatchString(text) && c.cat.GlutenFree().Available {
		li.Crust = domain.CrustGlutenFree
	}
	for _, p := range mi.ProteinOptions {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			li.Protein = p.Name
			break
		}
	}
	for _, a := range mi.AddOns {
		if strings.Contains(lower, strings.ToLower(a.Name)) {
			li.AddOns = append(li.AddOns, a.Name)
		}
	}

	c.mu.Lock()
	c.items = append(c.items, li)
	c.mu.Unlock()
	return li, nil
}

// Remove drops the first cart line naming a menu item in text.
func (c *Cart) Remove(text string) bool {
	mi, ok := c.cat.FindByName(text)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, li := range c.items {
		if li.ID == mi.ID && li.Category == mi.Category {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the picks so far.
func (c *Cart) Items() []domain.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.LineItem(nil), c.items...)
}

// Len returns the number of cart lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Checkout returns the finalize message for the picks and empties the cart.
func (c *Cart) Checkout() (string, error) {
	c.mu.Lock()
	items := c.items
	c.items = nil
	c.mu.Unlock()

	if len(items) == 0 {
		return "", fmt.Errorf("cart is empty")
	}
	return FinalizeMessage(items)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
