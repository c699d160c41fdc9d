package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartcalc/internal/db"
	"github.com/nikolayk812/cartcalc/internal/domain"
	"github.com/nikolayk812/cartcalc/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) (port.CartRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	dbCartItems, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	items, err := mapRowsToDomain(dbCartItems, mapGetCartRowToDomain)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

// AddItem inserts the item or adds its quantity to the stored one.
func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity[%d] is not positive", item.Quantity)
	}
	if item.Quantity > math.MaxInt32 {
		return fmt.Errorf("quantity[%d] is too large", item.Quantity)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("price[%s] is negative", item.Price.Amount)
	}

	err := r.q.AddItem(ctx, db.AddItemParams{
		OwnerID:       ownerID,
		ProductID:     item.ProductID,
		PriceAmount:   item.Price.Amount,
		PriceCurrency: item.Price.Currency.String(),
		Quantity:      int32(item.Quantity),
	})
	if err != nil {
		return fmt.Errorf("q.AddItem: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID:   ownerID,
		ProductID: productID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	if quantity <= 0 {
		return r.DeleteItem(ctx, ownerID, productID)
	}
	if quantity > math.MaxInt32 {
		return false, fmt.Errorf("quantity[%d] is too large", quantity)
	}

	rowsAffected, err := r.q.UpdateItemQuantity(ctx, db.UpdateItemQuantityParams{
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  int32(quantity),
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateItemQuantity: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) TakeCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		rows, err := q.GetCartForUpdate(ctx, ownerID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.GetCartForUpdate: %w", err)
		}

		items, err := mapRowsToDomain(rows, mapGetCartForUpdateRowToDomain)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("mapRowsToDomain: %w", err)
		}

		if _, err := q.DeleteCart(ctx, ownerID); err != nil {
			return domain.Cart{}, fmt.Errorf("q.DeleteCart: %w", err)
		}

		return domain.Cart{
			OwnerID: ownerID,
			Items:   items,
		}, nil
	})
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		ProductID: row.ProductID,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapGetCartForUpdateRowToDomain(row db.GetCartForUpdateRow) (domain.CartItem, error) {
	return mapGetCartRowToDomain(db.GetCartRow(row))
}

func mapRowsToDomain[R any](rows []R, mapRow func(R) (domain.CartItem, error)) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapRow(row)
		if err != nil {
			return nil, fmt.Errorf("mapRow: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
