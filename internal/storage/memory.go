// Package storage provides port.SnapshotStorage adapters.
package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/cartcalc/internal/port"
)

var _ port.SnapshotStorage = (*Memory)(nil)

// Memory keeps snapshots in process memory. State is lost on exit.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.data[key]
	if !ok {
		return nil, port.ErrNotFound
	}

	return slices.Clone(payload), nil
}

func (m *Memory) Save(_ context.Context, key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = slices.Clone(payload)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
