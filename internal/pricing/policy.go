package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ShippingPolicy resolves the shipping cost for a subtotal.
type ShippingPolicy interface {
	ShippingCost(subtotal decimal.Decimal) decimal.Decimal
}

type ShippingFunc func(subtotal decimal.Decimal) decimal.Decimal

func (f ShippingFunc) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	return f(subtotal)
}

// ThresholdShipping charges Flat unless the subtotal is strictly above
// Threshold. An empty cart is below any non-negative threshold and pays Flat.
type ThresholdShipping struct {
	Threshold decimal.Decimal
	Flat      decimal.Decimal
}

func (p ThresholdShipping) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.Threshold) {
		return decimal.Zero
	}
	return p.Flat
}

// NoShipping never charges shipping.
type NoShipping struct{}

func (NoShipping) ShippingCost(decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

const (
	FlowStorefront  = "storefront"
	FlowPointOfSale = "pos"
)

// Settings are the configurable amounts shared by every flow.
type Settings struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingCost      decimal.Decimal
	ClampNegativeTotal    bool
}

// Policy is a named pricing flow. Storefront checkout and point of sale
// price the same lines differently and are kept as separate policies.
type Policy struct {
	Name               string
	TaxRate            decimal.Decimal
	Shipping           ShippingPolicy
	ClampNegativeTotal bool
}

// CheckoutPolicy applies the free-shipping threshold rule.
func CheckoutPolicy(s Settings) Policy {
	return Policy{
		Name:    FlowStorefront,
		TaxRate: s.TaxRate,
		Shipping: ThresholdShipping{
			Threshold: s.FreeShippingThreshold,
			Flat:      s.FlatShippingCost,
		},
		ClampNegativeTotal: s.ClampNegativeTotal,
	}
}

// PointOfSalePolicy applies the flat tax rate and no shipping at all.
func PointOfSalePolicy(s Settings) Policy {
	return Policy{
		Name:               FlowPointOfSale,
		TaxRate:            s.TaxRate,
		Shipping:           NoShipping{},
		ClampNegativeTotal: s.ClampNegativeTotal,
	}
}

// PolicyFor selects a policy by flow name.
func PolicyFor(flow string, s Settings) (Policy, error) {
	switch flow {
	case FlowStorefront:
		return CheckoutPolicy(s), nil
	case FlowPointOfSale:
		return PointOfSalePolicy(s), nil
	default:
		return Policy{}, fmt.Errorf("flow[%s] is not supported", flow)
	}
}

func (p Policy) Input(lines []CartLine, discount decimal.Decimal) Input {
	return Input{
		Lines:              lines,
		TaxRate:            p.TaxRate,
		DiscountAmount:     discount,
		Shipping:           p.Shipping,
		ClampNegativeTotal: p.ClampNegativeTotal,
	}
}

// Compute prices the lines under the policy.
func (p Policy) Compute(lines []CartLine, discount decimal.Decimal) (Result, error) {
	return ComputeOrderTotals(p.Input(lines, discount))
}
