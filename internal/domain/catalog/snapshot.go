// Package catalog holds the read-only view of the sales catalog the
// order-entry core consumes: categories, subcategories, products and the
// predefined observation tags scoped to each subcategory. The core never
// mutates catalog data.
package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subcategory groups products under a category
type Subcategory struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// Category is a top-level catalog grouping
type Category struct {
	ID            uuid.UUID
	Name          string
	Subcategories []Subcategory
}

// Product is a sellable catalog entry.
// UnitPrice is tax-inclusive.
type Product struct {
	ID            uuid.UUID
	Name          string
	UnitPrice     decimal.Decimal
	SubcategoryID *uuid.UUID
	IsActive      bool
	ProductType   string
}

// HasValidPrice reports whether the product can be added to a cart
func (p Product) HasValidPrice() bool {
	return p.UnitPrice.IsPositive()
}

// Observation is a predefined note a user can attach to a cart line via
// toggle, scoped to a subcategory. Distinct from free manual text.
type Observation struct {
	ID       uuid.UUID
	Text     string
	IsActive bool
}

// Snapshot is an immutable view of the catalog at load time
type Snapshot struct {
	Categories []Category
	Products   []Product
}

// ProductByID returns the product with the given id, or false
func (s *Snapshot) ProductByID(id uuid.UUID) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ActiveProductsBySubcategory returns the active products under a subcategory,
// in snapshot order
func (s *Snapshot) ActiveProductsBySubcategory(subcategoryID uuid.UUID) []Product {
	var out []Product
	for _, p := range s.Products {
		if !p.IsActive {
			continue
		}
		if p.SubcategoryID != nil && *p.SubcategoryID == subcategoryID {
			out = append(out, p)
		}
	}
	return out
}

// ActiveObservations filters a tag list to active entries, preserving order
func ActiveObservations(tags []Observation) []Observation {
	var out []Observation
	for _, tag := range tags {
		if tag.IsActive {
			out = append(out, tag)
		}
	}
	return out
}
