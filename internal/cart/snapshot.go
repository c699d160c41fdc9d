package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartcalc/internal/domain"
	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Storage keys of the persisted client-side collections.
const (
	KeyCartItems       = "cartItems"
	KeyWishlistItems   = "wishlistItems"
	KeyComparisonItems = "comparisonItems"
)

// Key namespaces a collection key by owner, e.g. "42:cartItems".
func Key(ownerID, name string) string {
	if ownerID == "" {
		return name
	}
	return ownerID + ":" + name
}

type lineRecord struct {
	ProductID uuid.UUID       `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"quantity"`
}

type productRecord struct {
	ProductID uuid.UUID `json:"productId"`
}

// load returns the decoded collection. A missing key is an empty collection,
// and so is content that does not decode: corrupt state is logged and
// replaced, never returned as an error.
func load[T any](ctx context.Context, storage port.SnapshotStorage, key string, logger zerolog.Logger, decode func([]byte) ([]T, error)) ([]T, error) {
	payload, err := storage.Load(ctx, key)
	if errors.Is(err, port.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.Load: %w", err)
	}

	items, err := decode(payload)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("key", key).
			Int("bytes", len(payload)).
			Msg("corrupt persisted state, starting empty")
		return nil, nil
	}

	return items, nil
}

func encodeLines(lines []Line) ([]byte, error) {
	records := make([]lineRecord, 0, len(lines))
	for _, l := range lines {
		records = append(records, lineRecord{
			ProductID: l.ProductID,
			UnitPrice: l.Price.Amount,
			Currency:  l.Price.Currency.String(),
			Quantity:  l.Quantity,
		})
	}

	return json.Marshal(records)
}

func decodeLines(payload []byte) ([]Line, error) {
	var records []lineRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	lines := make([]Line, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, r := range records {
		if _, ok := seen[r.ProductID]; ok {
			return nil, fmt.Errorf("record[%d] productId[%s] is duplicated", i, r.ProductID)
		}
		seen[r.ProductID] = struct{}{}

		unit, err := currency.ParseISO(r.Currency)
		if err != nil {
			return nil, fmt.Errorf("record[%d] currency[%s] is not valid: %w", i, r.Currency, err)
		}
		if r.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("record[%d] unitPrice[%s] is negative", i, r.UnitPrice)
		}
		if r.Quantity <= 0 || r.Quantity > MaxQuantity {
			return nil, fmt.Errorf("record[%d] quantity[%d] is out of range", i, r.Quantity)
		}

		lines = append(lines, Line{
			ProductID: r.ProductID,
			Price:     domain.Money{Amount: r.UnitPrice, Currency: unit},
			Quantity:  r.Quantity,
		})
	}

	return lines, nil
}

func encodeProducts(ids []uuid.UUID) ([]byte, error) {
	records := make([]productRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, productRecord{ProductID: id})
	}

	return json.Marshal(records)
}

func decodeProducts(payload []byte) ([]uuid.UUID, error) {
	var records []productRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(records))
	for i, r := range records {
		if slices.Contains(ids, r.ProductID) {
			return nil, fmt.Errorf("record[%d] productId[%s] is duplicated", i, r.ProductID)
		}
		ids = append(ids, r.ProductID)
	}

	return ids, nil
}
