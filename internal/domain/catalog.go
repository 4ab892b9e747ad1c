// Package domain defines the core types and interfaces for the order-taking
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

// Well-known catalog categories. The catalog may define others.
const (
	CategoryPizzas = "pizzas"
	CategoryPastas = "pastas"
	CategoryDrinks = "drinks"
)

// MenuItem is a single dish or drink in the catalog. Immutable once loaded.
type MenuItem struct {
	ID             int             `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	Category       string          `yaml:"-" json:"category"`
	Description    string          `yaml:"description,omitempty" json:"description,omitempty"`
	Sizes          []SizeOption    `yaml:"sizes,omitempty" json:"sizes,omitempty"`
	Price          *float64        `yaml:"price,omitempty" json:"price,omitempty"` // flat price, drinks
	AddOns         []AddOn         `yaml:"add_ons,omitempty" json:"add_ons,omitempty"`
	ProteinOptions []ProteinOption `yaml:"protein_options,omitempty" json:"protein_options,omitempty"`
}

// SizeOption is one orderable size of a menu item.
type SizeOption struct {
	Size  string  `yaml:"size" json:"size"`
	Price float64 `yaml:"price" json:"price"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty"` // display name, e.g. "Medium"
}

// AddOn is an extra that can be added to an item for a price.
type AddOn struct {
	Name  string  `yaml:"name" json:"name"`
	Price float64 `yaml:"price" json:"price"`
}

// ProteinOption adjusts an item's price when chosen.
type ProteinOption struct {
	Name            string  `yaml:"name" json:"name"`
	PriceAdjustment float64 `yaml:"price_adjustment" json:"price_adjustment"`
}

// GlutenFree is the catalog-wide gluten-free crust adjustment.
type GlutenFree struct {
	Available       bool    `yaml:"available" json:"available"`
	PriceAdjustment float64 `yaml:"price_adjustment" json:"price_adjustment"`
}

// CrustGlutenFree is the crust value that triggers the gluten-free adjustment.
const CrustGlutenFree = "gluten-free"
