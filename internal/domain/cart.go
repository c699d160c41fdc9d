package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	ProductID uuid.UUID
	Price     Money
	Quantity  int

	CreatedAt time.Time
}

// Currency reports the currency of the first item, ok is false for an empty cart.
func (c Cart) Currency() (currency.Unit, bool) {
	if len(c.Items) == 0 {
		return currency.Unit{}, false
	}
	return c.Items[0].Price.Currency, true
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
