package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/rs/zerolog"
)

var ErrListFull = errors.New("list is full")

// ProductList is an ordered set of product IDs, used for the wishlist and
// the comparison list.
type ProductList struct {
	mu      sync.Mutex
	storage port.SnapshotStorage
	key     string
	limit   int
	ids     []uuid.UUID
}

// OpenList loads the list stored under key. A limit <= 0 means unbounded.
func OpenList(ctx context.Context, storage port.SnapshotStorage, key string, limit int, logger zerolog.Logger) (*ProductList, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	ids, err := load(ctx, storage, key, logger, decodeProducts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	return &ProductList{
		storage: storage,
		key:     key,
		limit:   limit,
		ids:     ids,
	}, nil
}

// Add appends the product, reporting false if it is already listed.
func (l *ProductList) Add(ctx context.Context, productID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slices.Contains(l.ids, productID) {
		return false, nil
	}
	if l.limit > 0 && len(l.ids) >= l.limit {
		return false, fmt.Errorf("limit[%d]: %w", l.limit, ErrListFull)
	}

	if err := l.save(ctx, append(slices.Clone(l.ids), productID)); err != nil {
		return false, err
	}

	return true, nil
}

// Remove deletes the product, reporting false if it was not listed.
func (l *ProductList) Remove(ctx context.Context, productID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.Index(l.ids, productID)
	if i < 0 {
		return false, nil
	}

	if err := l.save(ctx, slices.Delete(slices.Clone(l.ids), i, i+1)); err != nil {
		return false, err
	}

	return true, nil
}

func (l *ProductList) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.save(ctx, nil)
}

func (l *ProductList) Contains(productID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Contains(l.ids, productID)
}

func (l *ProductList) Items() []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.ids)
}

func (l *ProductList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.ids)
}

// save must be called with l.mu held.
func (l *ProductList) save(ctx context.Context, next []uuid.UUID) error {
	payload, err := encodeProducts(next)
	if err != nil {
		return fmt.Errorf("encodeProducts: %w", err)
	}

	if err := l.storage.Save(ctx, l.key, payload); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}

	l.ids = next
	return nil
}
