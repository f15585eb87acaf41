package billing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/cart"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

var one = decimal.NewFromInt(1)

// Builder assembles invoice payloads from cart state and selections
type Builder struct {
	identity IdentityResolver
}

// NewBuilder creates a Builder using the given identity resolver
func NewBuilder(identity IdentityResolver) *Builder {
	return &Builder{identity: identity}
}

// Build validates the cart and selections and produces the submission
// payload. Preconditions are checked in order and each failure reports its
// own VALIDATION_FAILURE reason without touching cart state:
// cart non-empty, document type, serial, cash register, paid >= net total.
func (b *Builder) Build(ctx context.Context, c *cart.Cart, taxRatePercent decimal.Decimal, sel Selections) (*InvoicePayload, error) {
	if c.IsEmpty() {
		return nil, shared.NewValidationError("The cart is empty")
	}
	if sel.DocumentTypeID == nil {
		return nil, shared.NewValidationError("Select a document type")
	}
	if sel.SerialID == nil {
		return nil, shared.NewValidationError("Select a document serial")
	}
	if sel.CashRegisterID == nil {
		return nil, shared.NewValidationError("Select a cash register")
	}

	totals := c.Totals(taxRatePercent)
	if sel.PaidAmount.LessThan(totals.NetTotal) {
		return nil, shared.NewValidationError("Paid amount is below the order total")
	}

	divisor := one.Add(totals.TaxRatePercent.Div(decimal.NewFromInt(100)))
	lines := make([]InvoiceLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		unitPrice := valueobject.Round2(line.UnitPrice)
		lines = append(lines, InvoiceLine{
			ProductID:   line.ProductID,
			Description: line.Name,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			UnitValue:   valueobject.Round2(unitPrice.Div(divisor)),
			Notes:       strings.TrimSpace(line.Notes),
			Discount:    decimal.Zero,
		})
	}

	return &InvoicePayload{
		DocumentTypeID: *sel.DocumentTypeID,
		SerialID:       *sel.SerialID,
		CashRegisterID: *sel.CashRegisterID,
		CustomerID:     sel.CustomerID,
		DeviceID:       b.resolveDeviceID(ctx),
		Currency:       valueobject.DefaultCurrency,
		Lines:          lines,
		RawTotal:       totals.RawTotal,
		TotalDiscount:  totals.TotalDiscount,
		NetTotal:       totals.NetTotal,
		TaxRatePercent: totals.TaxRatePercent,
		TaxableBase:    totals.TaxableBase,
		TaxAmount:      totals.TaxAmount,
		DiscountFixed:  c.Discount.FixedAmount,
		DiscountRate:   c.Discount.Percent,
		Payment: Payment{
			ChargedAmount: totals.NetTotal,
			PaidAmount:    sel.PaidAmount,
		},
	}, nil
}

// resolveDeviceID asks the identity resolver for a device id, falling back
// to a generated one. Resolution failure never aborts a submission and is
// never surfaced to the user.
func (b *Builder) resolveDeviceID(ctx context.Context) string {
	if b.identity != nil {
		if id, err := b.identity.ResolveDeviceID(ctx); err == nil && id != "" {
			return id
		}
	}
	return uuid.New().String()
}
