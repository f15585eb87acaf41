// Package cart implements the order-entry cart: an ordered collection of
// product lines with quantity aggregation, an order-level discount and
// derived tax-inclusive totals.
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// Line represents one product entry in the cart with an aggregated quantity.
// LineID is stable for the line's lifetime and addresses updates/removals;
// ProductID keys merging. The two are deliberately distinct identifiers.
type Line struct {
	LineID        uuid.UUID
	ProductID     uuid.UUID
	Name          string
	UnitPrice     decimal.Decimal // tax-inclusive
	Quantity      int64
	LineTotal     decimal.Decimal // always recomputed from UnitPrice*Quantity
	Notes         string
	SubcategoryID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l *Line) recalculate() {
	l.LineTotal = valueobject.Round2(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	l.UpdatedAt = time.Now()
}

// Cart owns the line collection and the order-level discount.
// It exists only while the order is being entered; totals are derived,
// never stored.
type Cart struct {
	Lines     []Line
	Discount  Discount
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an empty cart with no discount
func New() *Cart {
	now := time.Now()
	return &Cart{
		Lines:     make([]Line, 0),
		Discount:  ZeroDiscount(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddProduct adds a product to the cart. If a line for the same product
// already exists its quantity accumulates; otherwise a new line is created
// with a fresh LineID and empty notes. A non-positive quantity defaults to 1.
// Fails with INVALID_PRICE when the product's unit price is not positive.
func (c *Cart) AddProduct(p catalog.Product, quantity int64) (*Line, error) {
	if !p.HasValidPrice() {
		return nil, shared.NewInvalidPriceError(p.Name)
	}
	if quantity <= 0 {
		quantity = 1
	}

	for idx := range c.Lines {
		if c.Lines[idx].ProductID == p.ID {
			c.Lines[idx].Quantity += quantity
			c.Lines[idx].recalculate()
			c.UpdatedAt = time.Now()
			return &c.Lines[idx], nil
		}
	}

	now := time.Now()
	line := Line{
		LineID:        uuid.New(),
		ProductID:     p.ID,
		Name:          p.Name,
		UnitPrice:     p.UnitPrice,
		Quantity:      quantity,
		SubcategoryID: p.SubcategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	line.recalculate()
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = now
	return &c.Lines[len(c.Lines)-1], nil
}

// UpdateQuantity sets a line's quantity and recomputes its total.
// A quantity of zero or less removes the line. Unknown line ids are a
// silent no-op.
func (c *Cart) UpdateQuantity(lineID uuid.UUID, quantity int64) {
	if quantity <= 0 {
		c.RemoveLine(lineID)
		return
	}
	for idx := range c.Lines {
		if c.Lines[idx].LineID == lineID {
			c.Lines[idx].Quantity = quantity
			c.Lines[idx].recalculate()
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// RemoveLine deletes the line if present; no-op otherwise
func (c *Cart) RemoveLine(lineID uuid.UUID) {
	for idx := range c.Lines {
		if c.Lines[idx].LineID == lineID {
			c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// SetNotes stores the committed notes string on a line
func (c *Cart) SetNotes(lineID uuid.UUID, notes string) error {
	for idx := range c.Lines {
		if c.Lines[idx].LineID == lineID {
			c.Lines[idx].Notes = notes
			c.Lines[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Line returns the line with the given id, or false
func (c *Cart) Line(lineID uuid.UUID) (*Line, bool) {
	for idx := range c.Lines {
		if c.Lines[idx].LineID == lineID {
			return &c.Lines[idx], true
		}
	}
	return nil, false
}

// SetDiscount replaces the order-level discount, clamping its inputs
func (c *Cart) SetDiscount(fixedAmount, percent decimal.Decimal) {
	c.Discount = NewDiscount(fixedAmount, percent)
	c.UpdatedAt = time.Now()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear empties the cart and resets the discount
func (c *Cart) Clear() {
	c.Lines = c.Lines[:0]
	c.Discount = ZeroDiscount()
	c.UpdatedAt = time.Now()
}
