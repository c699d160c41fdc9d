package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartcalc/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, item domain.CartItem) error
	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)
	// UpdateQuantity sets the item quantity, quantity <= 0 deletes the item.
	UpdateQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (bool, error)
	// TakeCart returns the cart and empties it atomically.
	TakeCart(ctx context.Context, ownerID string) (domain.Cart, error)
}
