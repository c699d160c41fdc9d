package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartcalc/internal/db"
	"github.com/nikolayk812/cartcalc/internal/port"
)

type snapshotRepository struct {
	q *db.Queries
}

// NewSnapshots stores client-side snapshots in the cart_snapshots table.
func NewSnapshots(pool *pgxpool.Pool) (port.SnapshotStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &snapshotRepository{q: db.New(pool)}, nil
}

func (r *snapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	payload, err := r.q.GetSnapshot(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetSnapshot: %w", err)
	}

	return payload, nil
}

func (r *snapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if payload == nil {
		payload = []byte{}
	}

	if err := r.q.UpsertSnapshot(ctx, db.UpsertSnapshotParams{Key: key, Payload: payload}); err != nil {
		return fmt.Errorf("q.UpsertSnapshot: %w", err)
	}

	return nil
}

func (r *snapshotRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.q.DeleteSnapshot(ctx, key); err != nil {
		return fmt.Errorf("q.DeleteSnapshot: %w", err)
	}

	return nil
}
