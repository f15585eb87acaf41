// Package billing validates cart readiness and assembles the exact numeric
// payload the submission gateway expects.
package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// Selections holds the document/serial/cash-register/payment choices made
// outside the cart that an invoice submission requires
type Selections struct {
	DocumentTypeID *uuid.UUID
	SerialID       *uuid.UUID
	CashRegisterID *uuid.UUID
	CustomerID     *uuid.UUID
	PaidAmount     decimal.Decimal
}

// InvoiceLine is the per-line shape sent to the gateway. UnitValue is the
// tax-exclusive unit price, derived independently from the order-level
// taxable base; the two may diverge by rounding and both are sent.
// Line-level discount is not supported and is always zero.
type InvoiceLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	Notes       string          `json:"notes"`
	Discount    decimal.Decimal `json:"discount"`
}

// Payment is the single payment record attached to the invoice: the net
// total as the charged amount plus the amount the user entered as paid
type Payment struct {
	ChargedAmount decimal.Decimal `json:"charged_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// InvoicePayload is the full submission shape
type InvoicePayload struct {
	DocumentTypeID uuid.UUID            `json:"document_type_id"`
	SerialID       uuid.UUID            `json:"serial_id"`
	CashRegisterID uuid.UUID            `json:"cash_register_id"`
	CustomerID     *uuid.UUID           `json:"customer_id,omitempty"`
	DeviceID       string               `json:"device_id"`
	Currency       valueobject.Currency `json:"currency"`
	Lines          []InvoiceLine        `json:"lines"`
	RawTotal       decimal.Decimal      `json:"raw_total"`
	TotalDiscount  decimal.Decimal      `json:"total_discount"`
	NetTotal       decimal.Decimal      `json:"net_total"`
	TaxRatePercent decimal.Decimal      `json:"tax_rate_percent"`
	TaxableBase    decimal.Decimal      `json:"taxable_base"`
	TaxAmount      decimal.Decimal      `json:"tax_amount"`
	DiscountFixed  decimal.Decimal      `json:"discount_fixed"`
	DiscountRate   decimal.Decimal      `json:"discount_percent"`
	Payment        Payment              `json:"payment"`
}
