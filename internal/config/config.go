package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/nikolayk812/cartcalc/internal/pricing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv          string
	LogFormat       string
	LogLevel        string
	DatabaseURL     string
	RedisURL        string
	Storage         string
	SnapshotTTL     time.Duration
	Currency        currency.Unit
	ComparisonLimit int
	Pricing         pricing.Settings
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{
		AppEnv:      valueOrDefault(k.String("APP_ENV"), "development"),
		LogFormat:   valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:    valueOrDefault(k.String("LOG_LEVEL"), "info"),
		DatabaseURL: strings.TrimSpace(k.String("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(k.String("REDIS_URL")),
		Storage:     strings.ToLower(valueOrDefault(k.String("CART_STORAGE"), StorageMemory)),
	}

	var err error

	if cfg.SnapshotTTL, err = time.ParseDuration(valueOrDefault(k.String("CART_SNAPSHOT_TTL"), "720h")); err != nil {
		return nil, fmt.Errorf("CART_SNAPSHOT_TTL: %w", err)
	}

	if cfg.Currency, err = currency.ParseISO(valueOrDefault(k.String("CART_CURRENCY"), "USD")); err != nil {
		return nil, fmt.Errorf("CART_CURRENCY: %w", err)
	}

	if cfg.ComparisonLimit, err = strconv.Atoi(valueOrDefault(k.String("CART_COMPARISON_LIMIT"), "4")); err != nil {
		return nil, fmt.Errorf("CART_COMPARISON_LIMIT: %w", err)
	}

	amounts := []struct {
		key      string
		fallback string
		dst      *decimal.Decimal
	}{
		{"CART_TAX_RATE", "0.16", &cfg.Pricing.TaxRate},
		{"CART_FREE_SHIPPING_THRESHOLD", "50", &cfg.Pricing.FreeShippingThreshold},
		{"CART_FLAT_SHIPPING_COST", "10", &cfg.Pricing.FlatShippingCost},
	}
	for _, a := range amounts {
		v, err := parseAmount(k.String(a.key), a.fallback)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.key, err)
		}
		*a.dst = v
	}

	cfg.Pricing.ClampNegativeTotal = parseBool(k.String("CART_CLAMP_NEGATIVE_TOTAL"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for CART_STORAGE=%s", c.Storage)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for CART_STORAGE=%s", c.Storage)
		}
	default:
		return fmt.Errorf("CART_STORAGE[%s] is not supported", c.Storage)
	}

	if c.SnapshotTTL < 0 {
		return fmt.Errorf("CART_SNAPSHOT_TTL[%s] is negative", c.SnapshotTTL)
	}

	return nil
}

func parseAmount(value, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(valueOrDefault(value, fallback))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("value[%s] is negative", d)
	}
	return d, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
