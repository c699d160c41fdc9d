package port

import (
	"context"
	"errors"
)

// ErrNotFound is returned by SnapshotStorage.Load when nothing is stored under the key.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStorage persists opaque client-side state under a key.
type SnapshotStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}
