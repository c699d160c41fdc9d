// Package cart holds the session's cart, wishlist and comparison
// collections, persisted through a port.SnapshotStorage on every mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartcalc/internal/domain"
	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/nikolayk812/cartcalc/internal/pricing"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid input")

// MaxQuantity bounds a line quantity so it fits the int32 quantity column.
const MaxQuantity = math.MaxInt32

type Product struct {
	ID    uuid.UUID
	Price domain.Money
}

type Line struct {
	ProductID uuid.UUID
	Price     domain.Money
	Quantity  int
}

// Store is the mutable list of cart lines for one session.
// A mutation that fails to persist leaves the store unchanged.
type Store struct {
	mu      sync.Mutex
	storage port.SnapshotStorage
	key     string
	lines   []Line
}

// Open loads the lines stored under key.
func Open(ctx context.Context, storage port.SnapshotStorage, key string, logger zerolog.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	lines, err := load(ctx, storage, key, logger, decodeLines)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	return &Store{
		storage: storage,
		key:     key,
		lines:   lines,
	}, nil
}

// AddItem appends a line, or adds quantity to the line of the same product.
// Stock is not checked here.
func (s *Store) AddItem(ctx context.Context, product Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity[%d] is not positive: %w", quantity, ErrInvalidInput)
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("quantity[%d] is too large: %w", quantity, ErrInvalidInput)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("price[%s] is negative: %w", product.Price.Amount, ErrInvalidInput)
	}

	var tooLarge bool
	err := s.mutate(ctx, func(lines []Line) ([]Line, bool) {
		if i := indexOf(lines, product.ID); i >= 0 {
			if lines[i].Quantity > MaxQuantity-quantity {
				tooLarge = true
				return lines, false
			}
			lines[i].Quantity += quantity
			return lines, true
		}

		return append(lines, Line{
			ProductID: product.ID,
			Price:     product.Price,
			Quantity:  quantity,
		}), true
	})
	if err != nil {
		return err
	}
	if tooLarge {
		return fmt.Errorf("quantity[%d] added to product[%s] exceeds %d: %w", quantity, product.ID, MaxQuantity, ErrInvalidInput)
	}

	return nil
}

// RemoveItem deletes the line of the product, absent products are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	return s.mutate(ctx, func(lines []Line) ([]Line, bool) {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines, false
		}
		return slices.Delete(lines, i, i+1), true
	})
}

// UpdateQuantity replaces the line quantity. A quantity <= 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("quantity[%d] is too large: %w", quantity, ErrInvalidInput)
	}

	return s.mutate(ctx, func(lines []Line) ([]Line, bool) {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines, false
		}
		lines[i].Quantity = quantity
		return lines, true
	})
}

// Clear empties the cart, e.g. after a completed checkout.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]Line) ([]Line, bool) {
		return nil, true
	})
}

func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.lines)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines)
}

// ItemCount is the sum of quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) PricingLines() []pricing.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return toPricingLines(s.lines)
}

// Quote prices the current lines under the policy.
func (s *Store) Quote(policy pricing.Policy, discount decimal.Decimal) (pricing.Result, error) {
	result, err := policy.Compute(s.PricingLines(), discount)
	if err != nil {
		return pricing.Result{}, fmt.Errorf("policy.Compute: %w", err)
	}

	return result, nil
}

func (s *Store) mutate(ctx context.Context, fn func([]Line) ([]Line, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(slices.Clone(s.lines))
	if !changed {
		return nil
	}

	payload, err := encodeLines(next)
	if err != nil {
		return fmt.Errorf("encodeLines: %w", err)
	}

	if err := s.storage.Save(ctx, s.key, payload); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}

	s.lines = next
	return nil
}

func indexOf(lines []Line, productID uuid.UUID) int {
	return slices.IndexFunc(lines, func(l Line) bool {
		return l.ProductID == productID
	})
}

func toPricingLines(lines []Line) []pricing.CartLine {
	result := make([]pricing.CartLine, 0, len(lines))
	for _, l := range lines {
		result = append(result, pricing.CartLine{
			ProductID: l.ProductID,
			UnitPrice: l.Price.Amount,
			Quantity:  l.Quantity,
		})
	}
	return result
}
