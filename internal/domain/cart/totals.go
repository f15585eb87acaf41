package cart

import (
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared/valueobject"
)

var (
	hundred = decimal.NewFromInt(100)

	// FallbackTaxRatePercent applies when no branch-configured rate is available
	FallbackTaxRatePercent = decimal.NewFromFloat(10.5)
)

// Discount is the order-wide discount configuration: a fixed amount plus a
// percentage of the raw total, stacked
type Discount struct {
	FixedAmount decimal.Decimal
	Percent     decimal.Decimal
}

// ZeroDiscount returns an empty discount
func ZeroDiscount() Discount {
	return Discount{FixedAmount: decimal.Zero, Percent: decimal.Zero}
}

// NewDiscount builds a Discount, clamping the fixed amount to >= 0 and the
// percentage to [0,100]
func NewDiscount(fixedAmount, percent decimal.Decimal) Discount {
	if fixedAmount.IsNegative() {
		fixedAmount = decimal.Zero
	}
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}
	return Discount{FixedAmount: fixedAmount, Percent: percent}
}

// AmountFor returns the total discount for a raw total, rounded to 2 decimals
// and never negative
func (d Discount) AmountFor(rawTotal decimal.Decimal) decimal.Decimal {
	amount := valueobject.Round2(d.FixedAmount.Add(rawTotal.Mul(d.Percent).Div(hundred)))
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Totals carries the derived order-level amounts. It is a pure function of
// the current lines, discount and tax rate, recomputed on every read.
type Totals struct {
	RawTotal       decimal.Decimal
	TotalDiscount  decimal.Decimal
	NetTotal       decimal.Decimal // after discount, still tax-inclusive
	TaxRatePercent decimal.Decimal
	TaxableBase    decimal.Decimal // tax-exclusive portion of NetTotal
	TaxAmount      decimal.Decimal
}

// RawTotal sums the current line totals
func (c *Cart) RawTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

// Totals computes the order totals at the given tax rate (percent).
// The taxable base is derived by dividing the tax-inclusive net total by
// (1+rate) and the tax amount by subtraction, in that order. Rounding the
// two independently would break TaxableBase + TaxAmount == NetTotal.
func (c *Cart) Totals(taxRatePercent decimal.Decimal) Totals {
	if taxRatePercent.IsNegative() {
		taxRatePercent = decimal.Zero
	}

	rawTotal := c.RawTotal()
	totalDiscount := c.Discount.AmountFor(rawTotal)
	netTotal := rawTotal.Sub(totalDiscount)
	if netTotal.IsNegative() {
		netTotal = decimal.Zero
	}

	divisor := decimal.NewFromInt(1).Add(taxRatePercent.Div(hundred))
	taxableBase := valueobject.Round2(netTotal.Div(divisor))
	taxAmount := valueobject.Round2(netTotal.Sub(taxableBase))

	return Totals{
		RawTotal:       rawTotal,
		TotalDiscount:  totalDiscount,
		NetTotal:       netTotal,
		TaxRatePercent: taxRatePercent,
		TaxableBase:    taxableBase,
		TaxAmount:      taxAmount,
	}
}
