package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartcalc/internal/cart"
	"github.com/nikolayk812/cartcalc/internal/config"
	"github.com/nikolayk812/cartcalc/internal/pricing"
	"github.com/nikolayk812/cartcalc/internal/storage"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage:         config.StorageMemory,
		Currency:        currency.USD,
		ComparisonLimit: 2,
		Pricing: pricing.Settings{
			TaxRate:               decimal.RequireFromString("0.16"),
			FreeShippingThreshold: decimal.RequireFromString("50"),
			FlatShippingCost:      decimal.RequireFromString("10"),
		},
	}
}

func TestRun_Add(t *testing.T) {
	var out bytes.Buffer
	id := uuid.New()

	err := run(t.Context(), testConfig(), storage.NewMemory(), zerolog.Nop(), &out, runParams{
		ownerID:  "42",
		flow:     pricing.FlowStorefront,
		discount: "15",
		lang:     "en",
		args:     []string{"add", id.String(), "20", "3"},
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), id.String())
	assert.Contains(t, out.String(), "54.60")
	assert.Contains(t, out.String(), "storefront")
}

func TestRun_PersistsAcrossRuns(t *testing.T) {
	mem := storage.NewMemory()
	id := uuid.New()

	params := runParams{ownerID: "42", flow: pricing.FlowPointOfSale, discount: "0", lang: "en"}

	params.args = []string{"add", id.String(), "20", "3"}
	require.NoError(t, run(t.Context(), testConfig(), mem, zerolog.Nop(), io.Discard, params))

	var out bytes.Buffer
	params.args = []string{"show"}
	require.NoError(t, run(t.Context(), testConfig(), mem, zerolog.Nop(), &out, params))

	assert.Contains(t, out.String(), id.String())
	assert.Contains(t, out.String(), "69.60")
}

func TestRun_Lists(t *testing.T) {
	ctx := t.Context()
	cfg := testConfig()
	mem := storage.NewMemory()

	list := func(args ...string) (string, error) {
		var out bytes.Buffer
		err := run(ctx, cfg, mem, zerolog.Nop(), &out, runParams{ownerID: "42", args: args})
		return out.String(), err
	}

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	_, err := list("compare", "add", ids[0].String())
	require.NoError(t, err)
	out, err := list("compare", "add", ids[1].String())
	require.NoError(t, err)
	assert.Contains(t, out, "42:comparisonItems (2)")

	_, err = list("compare", "add", ids[2].String())
	require.ErrorIs(t, err, cart.ErrListFull)

	// the wishlist has no limit and is stored apart from the comparison list
	for _, id := range ids {
		_, err = list("wish", "add", id.String())
		require.NoError(t, err)
	}
	out, err = list("wish")
	require.NoError(t, err)
	assert.Contains(t, out, "42:wishlistItems (3)")

	_, err = list("compare", "remove", ids[0].String())
	require.NoError(t, err)
	out, err = list("compare", "add", ids[2].String())
	require.NoError(t, err)
	assert.Contains(t, out, ids[2].String())
	assert.NotContains(t, out, ids[0].String())

	out, err = list("compare", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "42:comparisonItems (0)")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name      string
		params    runParams
		wantError string
	}{
		{
			name:      "unknown flow: error",
			params:    runParams{flow: "kiosk", discount: "0", lang: "en", args: []string{"show"}},
			wantError: "flow[kiosk] is not supported",
		},
		{
			name:      "bad discount: error",
			params:    runParams{flow: pricing.FlowPointOfSale, discount: "x", lang: "en", args: []string{"show"}},
			wantError: "discount[x]",
		},
		{
			name:      "unknown command: error",
			params:    runParams{flow: pricing.FlowPointOfSale, discount: "0", lang: "en", args: []string{"checkout"}},
			wantError: `command "checkout" with 0 arguments is not supported`,
		},
		{
			name:      "negative discount: error",
			params:    runParams{flow: pricing.FlowPointOfSale, discount: "-1", lang: "en", args: []string{"show"}},
			wantError: "invalid input",
		},
		{
			name:      "unknown list command: error",
			params:    runParams{args: []string{"wish", "share"}},
			wantError: `list command "share" with 0 arguments is not supported`,
		},
		{
			name:      "list add with bad product ID: error",
			params:    runParams{args: []string{"compare", "add", "x"}},
			wantError: "productID[x]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := run(t.Context(), testConfig(), storage.NewMemory(), zerolog.Nop(), &out, tt.params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestApply(t *testing.T) {
	ctx := t.Context()
	cfg := testConfig()

	store, err := cart.Open(ctx, storage.NewMemory(), cart.KeyCartItems, zerolog.Nop())
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, apply(ctx, store, cfg, []string{"add", id.String(), "2.50", "2"}))
	require.NoError(t, apply(ctx, store, cfg, []string{"set", id.String(), "5"}))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, currency.USD, lines[0].Price.Currency)

	require.NoError(t, apply(ctx, store, cfg, []string{"remove", id.String()}))
	assert.Zero(t, store.Len())

	require.NoError(t, apply(ctx, store, cfg, []string{"add", id.String(), "1", "1"}))
	require.NoError(t, apply(ctx, store, cfg, []string{"clear"}))
	assert.Zero(t, store.Len())

	require.Error(t, apply(ctx, store, cfg, []string{"add", "not-a-uuid", "1", "1"}))
	require.Error(t, apply(ctx, store, cfg, []string{"set", id.String(), "many"}))
}
