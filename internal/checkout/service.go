// Package checkout prices carts held by a port.CartRepository.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartcalc/internal/domain"
	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/nikolayk812/cartcalc/internal/pricing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrMixedCurrency = errors.New("cart has items in more than one currency")
)

type Service struct {
	carts    port.CartRepository
	policy   pricing.Policy
	currency currency.Unit
}

// New builds a service quoting in the currency of the cart items.
// Empty carts are quoted in unit.
func New(carts port.CartRepository, policy pricing.Policy, unit currency.Unit) (*Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if policy.Shipping == nil {
		return nil, fmt.Errorf("policy[%s] has no shipping policy", policy.Name)
	}
	if unit == (currency.Unit{}) {
		return nil, fmt.Errorf("currency is not set")
	}

	return &Service{carts: carts, policy: policy, currency: unit}, nil
}

// NewStorefront prices with the free-shipping threshold rule.
func NewStorefront(carts port.CartRepository, s pricing.Settings, unit currency.Unit) (*Service, error) {
	return New(carts, pricing.CheckoutPolicy(s), unit)
}

// NewPointOfSale prices with flat tax and no shipping.
func NewPointOfSale(carts port.CartRepository, s pricing.Settings, unit currency.Unit) (*Service, error) {
	return New(carts, pricing.PointOfSalePolicy(s), unit)
}

type Quote struct {
	OwnerID  string
	Flow     string
	Currency currency.Unit
	Items    []domain.CartItem
	// Exact holds unrounded amounts, Totals the amounts to display and charge.
	Exact  pricing.Result
	Totals pricing.Result
}

// Receipt is the quote of a cart that has been taken for an order.
type Receipt struct {
	Quote
}

// Quote prices the owner's current cart without changing it.
// An empty cart is priced too, under the policy it may still pay shipping.
func (s *Service) Quote(ctx context.Context, ownerID string, discount decimal.Decimal) (Quote, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return Quote{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return s.price(cart, discount)
}

// Complete takes the owner's cart, emptying it, and returns the receipt.
// Pricing failures leave the cart in place.
func (s *Service) Complete(ctx context.Context, ownerID string, discount decimal.Decimal) (Receipt, error) {
	current, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return Receipt{}, fmt.Errorf("carts.GetCart: %w", err)
	}
	if current.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}
	// price before taking so that invalid input does not lose the cart
	if _, err := s.price(current, discount); err != nil {
		return Receipt{}, err
	}

	cart, err := s.carts.TakeCart(ctx, ownerID)
	if err != nil {
		return Receipt{}, fmt.Errorf("carts.TakeCart: %w", err)
	}
	if cart.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}

	quote, err := s.price(cart, discount)
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{Quote: quote}, nil
}

func (s *Service) price(cart domain.Cart, discount decimal.Decimal) (Quote, error) {
	unit, err := cartCurrency(cart, s.currency)
	if err != nil {
		return Quote{}, err
	}

	lines := make([]pricing.CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, pricing.CartLine{
			ProductID: item.ProductID,
			UnitPrice: item.Price.Amount,
			Quantity:  item.Quantity,
		})
	}

	exact, err := s.policy.Compute(lines, discount)
	if err != nil {
		return Quote{}, fmt.Errorf("policy.Compute: %w", err)
	}

	return Quote{
		OwnerID:  cart.OwnerID,
		Flow:     s.policy.Name,
		Currency: unit,
		Items:    cart.Items,
		Exact:    exact,
		Totals:   exact.Rounded(),
	}, nil
}

func cartCurrency(cart domain.Cart, fallback currency.Unit) (currency.Unit, error) {
	unit, ok := cart.Currency()
	if !ok {
		return fallback, nil
	}

	for _, item := range cart.Items {
		if item.Price.Currency != unit {
			return currency.Unit{}, fmt.Errorf("%s and %s: %w", unit, item.Price.Currency, ErrMixedCurrency)
		}
	}

	return unit, nil
}
