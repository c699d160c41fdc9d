// Package pricing derives order totals from cart lines.
//
// All arithmetic is exact decimal arithmetic. Rounding to cents is applied
// once, by Result.Rounded, and only for presentation.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when a price, quantity or policy amount is
// negative or not finite.
var ErrInvalidInput = errors.New("invalid input")

type CartLine struct {
	ProductID uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
}

// NewCartLine builds a line from a float price, rejecting NaN and infinities.
func NewCartLine(productID uuid.UUID, unitPrice float64, quantity int) (CartLine, error) {
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return CartLine{}, fmt.Errorf("unitPrice[%v] is not finite: %w", unitPrice, ErrInvalidInput)
	}

	line := CartLine{
		ProductID: productID,
		UnitPrice: decimal.NewFromFloat(unitPrice),
		Quantity:  quantity,
	}
	if err := line.validate(); err != nil {
		return CartLine{}, err
	}

	return line, nil
}

// Total is unit price times quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) validate() error {
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("product[%s] unitPrice[%s] is negative: %w", l.ProductID, l.UnitPrice, ErrInvalidInput)
	}
	if l.Quantity < 0 {
		return fmt.Errorf("product[%s] quantity[%d] is negative: %w", l.ProductID, l.Quantity, ErrInvalidInput)
	}
	return nil
}

type Input struct {
	Lines                 []CartLine
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingCost      decimal.Decimal
	DiscountAmount        decimal.Decimal

	// Shipping overrides the default threshold rule built from
	// FreeShippingThreshold and FlatShippingCost.
	Shipping ShippingPolicy

	// ClampNegativeTotal floors the total at zero when the discount exceeds
	// everything else. Off by default: the total may go negative.
	ClampNegativeTotal bool
}

type Result struct {
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ComputeOrderTotals sums the lines, applies the shipping policy, tax on the
// subtotal and the discount. It has no side effects.
func ComputeOrderTotals(in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	subtotal := decimal.Zero
	for _, line := range in.Lines {
		subtotal = subtotal.Add(line.Total())
	}

	shipping := in.shippingPolicy().ShippingCost(subtotal)
	tax := subtotal.Mul(in.TaxRate)

	total := subtotal.Add(shipping).Add(tax).Sub(in.DiscountAmount)
	if in.ClampNegativeTotal && total.IsNegative() {
		total = decimal.Zero
	}

	return Result{
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		TaxAmount:      tax,
		DiscountAmount: in.DiscountAmount,
		Total:          total,
	}, nil
}

func (in Input) shippingPolicy() ShippingPolicy {
	if in.Shipping != nil {
		return in.Shipping
	}
	return ThresholdShipping{
		Threshold: in.FreeShippingThreshold,
		Flat:      in.FlatShippingCost,
	}
}

func (in Input) validate() error {
	for _, line := range in.Lines {
		if err := line.validate(); err != nil {
			return err
		}
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"taxRate", in.TaxRate},
		{"freeShippingThreshold", in.FreeShippingThreshold},
		{"flatShippingCost", in.FlatShippingCost},
		{"discountAmount", in.DiscountAmount},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%s[%s] is negative: %w", a.name, a.value, ErrInvalidInput)
		}
	}

	return nil
}

// Rounded rounds every component to cents, half away from zero, and derives
// the total from the rounded components so the displayed figures add up.
func (r Result) Rounded() Result {
	out := Result{
		Subtotal:       r.Subtotal.Round(2),
		ShippingCost:   r.ShippingCost.Round(2),
		TaxAmount:      r.TaxAmount.Round(2),
		DiscountAmount: r.DiscountAmount.Round(2),
	}
	out.Total = out.Subtotal.Add(out.ShippingCost).Add(out.TaxAmount).Sub(out.DiscountAmount)

	// rounding never turns a non-negative total negative: the rounded
	// discount is capped at the rounded charges instead
	if !r.Total.IsNegative() && out.Total.IsNegative() {
		out.DiscountAmount = out.Subtotal.Add(out.ShippingCost).Add(out.TaxAmount)
		out.Total = decimal.Zero
	}

	return out
}
