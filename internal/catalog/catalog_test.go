package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

func TestDefaultLoads(t *testing.T) {
	c := Default()

	want := []string{"pizzas", "pastas", "drinks"}
	got := c.Categories()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("categories = %v, want %v", got, want)
	}

	m, ok := c.Find("pizzas", 1)
	if !ok || m.Name != "Margherita" {
		t.Fatalf("Find(pizzas,1) = %+v, %v", m, ok)
	}
	if m.Category != "pizzas" {
		t.Fatalf("category not stamped on item: %q", m.Category)
	}
	if !c.GlutenFree().Available {
		t.Fatal("expected gluten-free crust to be available")
	}
}

func TestLoadAcceptsJSON(t *testing.T) {
	src := `{"categories":[{"name":"Drinks","items":[{"id":7,"name":"Chinotto","price":3.5}]}],
		"gluten_free":{"available":false,"price_adjustment":0}}`
	c, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	it, ok := c.Find("drinks", 7)
	if !ok || it.Price == nil || *it.Price != 3.5 {
		t.Fatalf("unexpected item %+v", it)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", `categories: []`},
		{"unnamed category", "categories:\n  - name: ''\n    items: []"},
		{"pizza without sizes", "categories:\n  - name: pizzas\n    items:\n      - {id: 1, name: Bare}"},
		{"drink without price", "categories:\n  - name: drinks\n    items:\n      - {id: 1, name: Water}"},
		{"duplicate id", "categories:\n  - name: drinks\n    items:\n      - {id: 1, name: A, price: 1}\n      - {id: 1, name: B, price: 1}"},
		{"not yaml", "::: nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			if !errors.Is(err, domain.ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestRequiresSize(t *testing.T) {
	c := Default()
	tests := []struct {
		name string
		item domain.LineItem
		want bool
	}{
		{"multi-size pizza", domain.LineItem{ID: 1, Category: "pizzas"}, true},
		{"already sized", domain.LineItem{ID: 1, Category: "pizzas", Size: "m"}, false},
		{"single-size calzone", domain.LineItem{ID: 5, Category: "pizzas"}, false},
		{"drink", domain.LineItem{ID: 1, Category: "drinks"}, false},
		{"unknown item", domain.LineItem{ID: 99, Category: "pizzas"}, false},
		{"multi-size pasta", domain.LineItem{ID: 1, Category: "pastas"}, true},
		{"category from name", domain.LineItem{ID: 1, Name: "Margherita Pizza"}, true},
		{"drink from name", domain.LineItem{ID: 1, Name: "Soft Drink"}, false},
		{"no category, unknown name", domain.LineItem{ID: 1, Name: "Tiramisu"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.RequiresSize(tt.item); got != tt.want {
				t.Fatalf("RequiresSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		item   domain.LineItem
		want   string
		wantOK bool
	}{
		{domain.LineItem{Name: "Margherita Pizza", Category: " Pastas "}, "pastas", true},
		{domain.LineItem{Name: "Margherita Pizza"}, "pizzas", true},
		{domain.LineItem{Name: "Penne Pasta"}, "pastas", true},
		{domain.LineItem{Name: "House Drink"}, "drinks", true},
		{domain.LineItem{Name: "Cannoli"}, "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveCategory(tt.item)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ResolveCategory(%+v) = %q, %v; want %q, %v", tt.item, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatchSize(t *testing.T) {
	c := Default()
	if len(c.sizeRes) == 0 {
		t.Fatal("size patterns not compiled at load")
	}

	mi, _ := c.Find("pizzas", 1)
	if opt, ok := c.MatchSize(mi, "a large one"); !ok || opt.Size != "l" {
		t.Fatalf("MatchSize = %+v, %v", opt, ok)
	}

	// Items outside the catalog still match.
	adhoc := &domain.MenuItem{ID: 77, Name: "Focaccia", Sizes: []domain.SizeOption{{Size: "half"}, {Size: "whole"}}}
	if opt, ok := c.MatchSize(adhoc, "the whole thing"); !ok || opt.Size != "whole" {
		t.Fatalf("MatchSize ad hoc = %+v, %v", opt, ok)
	}
	if _, ok := c.MatchSize(adhoc, "no idea"); ok {
		t.Fatal("unexpected match")
	}
}

// Every item selected for clarification has more than one size and is not a drink.
func TestRequiresSizeOnlyMultiSize(t *testing.T) {
	c := Default()
	for _, cat := range c.Categories() {
		for _, it := range c.Items(cat) {
			li := domain.LineItem{ID: it.ID, Category: cat, Name: it.Name}
			if c.RequiresSize(li) && (len(it.Sizes) <= 1 || cat == domain.CategoryDrinks) {
				t.Errorf("%s/%s selected for clarification with %d sizes", cat, it.Name, len(it.Sizes))
			}
		}
	}
}

func TestFindByName(t *testing.T) {
	c := Default()
	tests := []struct {
		text string
		want string
	}{
		{"can I get another margherita please", "Margherita"},
		{"one more Spaghetti Carbonara", "Spaghetti Carbonara"},
		{"a coca-cola too", "Coca-Cola"},
		{"nothing on the menu", ""},
	}
	for _, tt := range tests {
		it, ok := c.FindByName(tt.text)
		got := ""
		if ok {
			got = it.Name
		}
		if got != tt.want {
			t.Errorf("FindByName(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestSizeLabel(t *testing.T) {
	tests := map[string]string{
		"s":       "Small",
		"M":       "Medium",
		"l":       "Large",
		"double":  "Double",
		"1l":      "1 Liter",
		"500ml":   "500ml",
		"family":  "Family",
		"":        "",
	}
	for in, want := range tests {
		if got := SizeLabel(in); got != want {
			t.Errorf("SizeLabel(%q) = %q, want %q", in, got, want)
		}
	}

	if got := OptionLabel(domain.SizeOption{Size: "xl", Label: "Party"}); got != "Party" {
		t.Errorf("catalog label should win, got %q", got)
	}
}

func TestMenuTextDeterministic(t *testing.T) {
	c := Default()
	a, b := c.MenuText(), c.MenuText()
	if a != b {
		t.Fatal("menu text differs between calls")
	}
	for _, want := range []string{"Pizzas:", "Margherita (Small $8.00, Medium $10.00, Large $12.00)", "Coca-Cola ($2.50)", "Gluten-free crust"} {
		if !strings.Contains(a, want) {
			t.Errorf("menu text missing %q", want)
		}
	}
}
