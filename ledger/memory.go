package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/picopay/bitserv/types"
)

// Memory is an in-process ledger for single-instance deployments and tests.
// For load-balanced deployments use the Redis or Postgres backends so the
// dedup window is shared across processes.
type Memory struct {
	mu      sync.Mutex
	records map[string]types.Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]types.Record)}
}

func (m *Memory) GetOrCreate(_ context.Context, identifier string, price types.Price) (types.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.records[identifier]; ok {
		return rec, false, nil
	}

	rec := types.Record{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}
	m.records[identifier] = rec
	return rec, true, nil
}

var _ Ledger = (*Memory)(nil)
