package cart_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartcalc/internal/cart"
	"github.com/nikolayk812/cartcalc/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductList(t *testing.T) {
	ctx := t.Context()
	mem := storage.NewMemory()
	key := cart.Key(gofakeit.UUID(), cart.KeyWishlistItems)

	list, err := cart.OpenList(ctx, mem, key, 0, zerolog.Nop())
	require.NoError(t, err)

	a, b := uuid.New(), uuid.New()

	added, err := list.Add(ctx, a)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = list.Add(ctx, a)
	require.NoError(t, err)
	assert.False(t, added)

	added, err = list.Add(ctx, b)
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, []uuid.UUID{a, b}, list.Items())
	assert.True(t, list.Contains(b))

	removed, err := list.Remove(ctx, a)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = list.Remove(ctx, a)
	require.NoError(t, err)
	assert.False(t, removed)

	reopened, err := cart.OpenList(ctx, mem, key, 0, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b}, reopened.Items())

	require.NoError(t, reopened.Clear(ctx))
	assert.Zero(t, reopened.Len())
}

func TestProductList_Limit(t *testing.T) {
	ctx := t.Context()
	list, err := cart.OpenList(ctx, storage.NewMemory(), cart.KeyComparisonItems, 2, zerolog.Nop())
	require.NoError(t, err)

	for range 2 {
		_, err := list.Add(ctx, uuid.New())
		require.NoError(t, err)
	}

	_, err = list.Add(ctx, uuid.New())
	require.ErrorIs(t, err, cart.ErrListFull)
	assert.Equal(t, 2, list.Len())
}

func TestProductList_CorruptStateIsEmpty(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "object", payload: `{"not":"an array"}`},
		{name: "duplicate product", payload: `[{"productId":"` + id + `"},{"productId":"` + id + `"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			mem := storage.NewMemory()
			require.NoError(t, mem.Save(ctx, cart.KeyWishlistItems, []byte(tt.payload)))

			list, err := cart.OpenList(ctx, mem, cart.KeyWishlistItems, 0, zerolog.Nop())
			require.NoError(t, err)
			assert.Zero(t, list.Len())
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "42:cartItems", cart.Key("42", cart.KeyCartItems))
	assert.Equal(t, "cartItems", cart.Key("", cart.KeyCartItems))
}
