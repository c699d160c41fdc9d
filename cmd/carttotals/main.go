// Command carttotals edits a persisted cart and prints its totals.
//
//	carttotals -owner 42 add <productID> <unitPrice> <quantity>
//	carttotals -owner 42 set <productID> <quantity>
//	carttotals -owner 42 remove <productID>
//	carttotals -owner 42 clear
//	carttotals -owner 42 -flow pos -discount 5 show
//	carttotals -owner 42 wish add|remove <productID>
//	carttotals -owner 42 compare add|remove <productID>
//	carttotals -owner 42 compare show|clear
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartcalc/internal/cart"
	"github.com/nikolayk812/cartcalc/internal/config"
	"github.com/nikolayk812/cartcalc/internal/domain"
	"github.com/nikolayk812/cartcalc/internal/obs"
	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/nikolayk812/cartcalc/internal/pricing"
	"github.com/nikolayk812/cartcalc/internal/repository"
	"github.com/nikolayk812/cartcalc/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func main() {
	var (
		ownerID  = flag.String("owner", "", "cart owner; empty uses the shared cart")
		flow     = flag.String("flow", pricing.FlowStorefront, "pricing flow: storefront or pos")
		discount = flag.String("discount", "0", "discount amount subtracted from the total")
		lang     = flag.String("lang", "en", "language tag used to format amounts")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().
		Str("app_env", cfg.AppEnv).
		Str("storage", cfg.Storage).
		Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"show"}
	}

	snapshots, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("openStorage failed")
		cancel()
		os.Exit(1)
	}

	if err := run(ctx, cfg, snapshots, logger, os.Stdout, runParams{
		ownerID:  *ownerID,
		flow:     *flow,
		discount: *discount,
		lang:     *lang,
		args:     args,
	}); err != nil {
		logger.Error().Err(err).Strs("args", args).Msg("carttotals failed")
		closeStorage()
		cancel()
		os.Exit(1)
	}
	closeStorage()
}

type runParams struct {
	ownerID  string
	flow     string
	discount string
	lang     string
	args     []string
}

func run(ctx context.Context, cfg *config.Config, snapshots port.SnapshotStorage, logger zerolog.Logger, out io.Writer, p runParams) error {
	if len(p.args) > 0 {
		switch p.args[0] {
		case "wish":
			return runList(ctx, snapshots, cart.Key(p.ownerID, cart.KeyWishlistItems), 0, logger, out, p.args[1:])
		case "compare":
			return runList(ctx, snapshots, cart.Key(p.ownerID, cart.KeyComparisonItems), cfg.ComparisonLimit, logger, out, p.args[1:])
		}
	}

	policy, err := pricing.PolicyFor(p.flow, cfg.Pricing)
	if err != nil {
		return err
	}

	discount, err := decimal.NewFromString(p.discount)
	if err != nil {
		return fmt.Errorf("discount[%s]: %w", p.discount, err)
	}

	tag, err := language.Parse(p.lang)
	if err != nil {
		return fmt.Errorf("lang[%s]: %w", p.lang, err)
	}

	store, err := cart.Open(ctx, snapshots, cart.Key(p.ownerID, cart.KeyCartItems), logger)
	if err != nil {
		return fmt.Errorf("cart.Open: %w", err)
	}

	if err := apply(ctx, store, cfg, p.args); err != nil {
		return err
	}

	result, err := store.Quote(policy, discount)
	if err != nil {
		return err
	}

	printTotals(out, store.Lines(), result.Rounded(), cfg.Currency, tag, policy.Name)
	return nil
}

func apply(ctx context.Context, store *cart.Store, cfg *config.Config, args []string) error {
	cmd, rest := args[0], args[1:]

	switch {
	case cmd == "show" && len(rest) == 0:
		return nil
	case cmd == "clear" && len(rest) == 0:
		return store.Clear(ctx)
	case cmd == "remove" && len(rest) == 1:
		id, err := uuid.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("productID[%s]: %w", rest[0], err)
		}
		return store.RemoveItem(ctx, id)
	case cmd == "set" && len(rest) == 2:
		id, err := uuid.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("productID[%s]: %w", rest[0], err)
		}
		qty, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("quantity[%s]: %w", rest[1], err)
		}
		return store.UpdateQuantity(ctx, id, qty)
	case cmd == "add" && len(rest) == 3:
		id, err := uuid.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("productID[%s]: %w", rest[0], err)
		}
		price, err := decimal.NewFromString(rest[1])
		if err != nil {
			return fmt.Errorf("unitPrice[%s]: %w", rest[1], err)
		}
		qty, err := strconv.Atoi(rest[2])
		if err != nil {
			return fmt.Errorf("quantity[%s]: %w", rest[2], err)
		}
		product := cart.Product{
			ID:    id,
			Price: domain.Money{Amount: price, Currency: cfg.Currency},
		}
		return store.AddItem(ctx, product, qty)
	default:
		return fmt.Errorf("command %q with %d arguments is not supported", cmd, len(rest))
	}
}

// runList edits a wishlist or comparison list and prints its items.
// A limit of zero means unlimited.
func runList(ctx context.Context, snapshots port.SnapshotStorage, key string, limit int, logger zerolog.Logger, out io.Writer, args []string) error {
	list, err := cart.OpenList(ctx, snapshots, key, limit, logger)
	if err != nil {
		return fmt.Errorf("cart.OpenList: %w", err)
	}

	if len(args) == 0 {
		args = []string{"show"}
	}
	cmd, rest := args[0], args[1:]

	switch {
	case cmd == "show" && len(rest) == 0:
	case cmd == "clear" && len(rest) == 0:
		if err := list.Clear(ctx); err != nil {
			return err
		}
	case (cmd == "add" || cmd == "remove") && len(rest) == 1:
		id, err := uuid.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("productID[%s]: %w", rest[0], err)
		}
		if cmd == "add" {
			_, err = list.Add(ctx, id)
		} else {
			_, err = list.Remove(ctx, id)
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("list command %q with %d arguments is not supported", cmd, len(rest))
	}

	printList(out, key, list.Items())
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config) (port.SnapshotStorage, func(), error) {
	switch cfg.Storage {
	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis.ParseURL: %w", err)
		}
		client := redis.NewClient(opts)
		closeFn := func() { _ = client.Close() }

		if err := client.Ping(ctx).Err(); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}

		s, err := storage.NewRedis(client, cfg.SnapshotTTL)
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("storage.NewRedis: %w", err)
		}
		return s, closeFn, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}

		s, err := repository.NewSnapshots(pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.NewSnapshots: %w", err)
		}
		return s, pool.Close, nil

	default:
		return storage.NewMemory(), func() {}, nil
	}
}
