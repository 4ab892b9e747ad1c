// Package catalog holds the menu: categories, items, sizes and modifiers.
// A Catalog is read-only after Load and safe for concurrent reads.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
)

//go:embed menu.yaml
var defaultMenu []byte

// file is the on-disk shape. JSON is a YAML subset, so menu.json works too.
type file struct {
	Categories []struct {
		Name  string            `yaml:"name"`
		Items []domain.MenuItem `yaml:"items"`
	} `yaml:"categories"`
	GlutenFree domain.GlutenFree `yaml:"gluten_free"`
}

// Catalog is the loaded menu.
type Catalog struct {
	order      []string
	items      map[string][]domain.MenuItem
	glutenFree domain.GlutenFree
	names      []nameEntry // longest first
	sizeRes    map[sizeKey]*regexp.Regexp
}

type sizeKey struct {
	category string
	id       int
	size     string
}

type nameEntry struct {
	re       *regexp.Regexp
	category string
	id       int
	length   int
}

// Default returns the embedded menu. It panics if the embedded file is
// malformed, which can only happen at build time.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultMenu))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded menu: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML or JSON file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a catalog. Validation failures wrap
// domain.ErrInvalidCatalog.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", domain.ErrInvalidCatalog)
	}

	c := &Catalog{
		items:      make(map[string][]domain.MenuItem, len(f.Categories)),
		glutenFree: f.GlutenFree,
	}

	for _, cat := range f.Categories {
		name := strings.ToLower(strings.TrimSpace(cat.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: category without a name", domain.ErrInvalidCatalog)
		}
		if _, dup := c.items[name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", domain.ErrInvalidCatalog, name)
		}

		seen := make(map[int]bool, len(cat.Items))
		items := make([]domain.MenuItem, 0, len(cat.Items))
		for _, it := range cat.Items {
			if err := validateItem(name, it, seen); err != nil {
				return nil, err
			}
			it.Category = name
			items = append(items, it)
		}

		c.order = append(c.order, name)
		c.items[name] = items
	}

	c.indexNames()
	return c, nil
}

func validateItem(category string, it domain.MenuItem, seen map[int]bool) error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: %s item %d has no name", domain.ErrInvalidCatalog, category, it.ID)
	}
	if seen[it.ID] {
		return fmt.Errorf("%w: duplicate id %d in %s", domain.ErrInvalidCatalog, it.ID, category)
	}
	seen[it.ID] = true

	switch category {
	case domain.CategoryPizzas, domain.CategoryPastas:
		if len(it.Sizes) == 0 {
			return fmt.Errorf("%w: %s %q has no sizes", domain.ErrInvalidCatalog, category, it.Name)
		}
	case domain.CategoryDrinks:
		if it.Price == nil {
			return fmt.Errorf("%w: drink %q has no price", domain.ErrInvalidCatalog, it.Name)
		}
	}
	for _, s := range it.Sizes {
		if strings.TrimSpace(s.Size) == "" {
			return fmt.Errorf("%w: %q has an empty size", domain.ErrInvalidCatalog, it.Name)
		}
	}
	return nil
}

func (c *Catalog) indexNames() {
	c.sizeRes = make(map[sizeKey]*regexp.Regexp)
	for _, cat := range c.order {
		for _, it := range c.items[cat] {
			for _, opt := range it.Sizes {
				c.sizeRes[sizeKey{cat, it.ID, strings.ToLower(opt.Size)}] = sizePattern(opt)
			}
			pat := `(?i)\b` + regexp.QuoteMeta(strings.ToLower(it.Name)) + `\b`
			c.names = append(c.names, nameEntry{
				re:       regexp.MustCompile(pat),
				category: cat,
				id:       it.ID,
				length:   len(it.Name),
			})
		}
	}
	sort.SliceStable(c.names, func(i, j int) bool { return c.names[i].length > c.names[j].length })
}

// ── Lookups ──────────────────────────────────────────────────────

// Categories returns category names in file order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.order...)
}

// Items returns the items of a category in file order.
func (c *Catalog) Items(category string) []domain.MenuItem {
	return append([]domain.MenuItem(nil), c.items[strings.ToLower(category)]...)
}

// HasCategory reports whether the catalog defines the category.
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.items[strings.ToLower(category)]
	return ok
}

// Find looks up an item by category and id.
func (c *Catalog) Find(category string, id int) (*domain.MenuItem, bool) {
	items := c.items[strings.ToLower(category)]
	for i := range items {
		if items[i].ID == id {
			return &items[i], true
		}
	}
	return nil, false
}

// GlutenFree returns the catalog-wide gluten-free crust setting.
func (c *Catalog) GlutenFree() domain.GlutenFree { return c.glutenFree }

// FindByName returns the catalog item whose name appears in text as whole
// words. The longest matching name wins.
func (c *Catalog) FindByName(text string) (*domain.MenuItem, bool) {
	for _, n := range c.names {
		if n.re.MatchString(text) {
			return c.Find(n.category, n.id)
		}
	}
	return nil, false
}

// ResolveCategory returns the category of a line item: the explicit field
// when set, otherwise a guess from the item name for upstream data that
// omits it. The guess only knows the three built-in categories.
func ResolveCategory(li domain.LineItem) (string, bool) {
	if c := strings.ToLower(strings.TrimSpace(li.Category)); c != "" {
		return c, true
	}

	// Name fallback. Low precision.
	name := strings.ToLower(li.Name)
	switch {
	case strings.Contains(name, "pizza"):
		return domain.CategoryPizzas, true
	case strings.Contains(name, "pasta"):
		return domain.CategoryPastas, true
	case strings.Contains(name, "drink"):
		return domain.CategoryDrinks, true
	}
	return "", false
}

// Resolve finds the catalog item for a line item. See ResolveCategory.
func (c *Catalog) Resolve(li domain.LineItem) (*domain.MenuItem, bool) {
	category, ok := ResolveCategory(li)
	if !ok {
		return nil, false
	}
	return c.Find(category, li.ID)
}

// RequiresSize reports whether a line item still needs a size chosen.
// Drinks and single-size items never do.
func (c *Catalog) RequiresSize(li domain.LineItem) bool {
	if li.Size != "" {
		return false
	}
	if category, ok := ResolveCategory(li); !ok || category == domain.CategoryDrinks {
		return false
	}
	mi, ok := c.Resolve(li)
	if !ok {
		return false
	}
	return len(mi.Sizes) > 1
}
