package booking

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Sink and Lookup for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byPhone map[string][]Record
}

// NewMemoryStore creates an empty in-memory booking store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byPhone: make(map[string][]Record)}
}

var _ Sink = (*MemoryStore)(nil)
var _ Lookup = (*MemoryStore)(nil)

// Create records the booking and returns its confirmation code.
func (m *MemoryStore) Create(_ context.Context, rec Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byPhone[rec.Phone] = append(m.byPhone[rec.Phone], rec)
	return rec.Confirmation, nil
}

// LatestByPhone returns the most recently created booking for phone.
func (m *MemoryStore) LatestByPhone(_ context.Context, phone string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.byPhone[phone]
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	latest := recs[len(recs)-1]
	return &latest, nil
}

// CancelByConfirmation cancels a confirmed booking matching phone and code.
func (m *MemoryStore) CancelByConfirmation(_ context.Context, phone, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	recs := m.byPhone[phone]
	for i := range recs {
		if recs[i].Confirmation == code && recs[i].Status == StatusConfirmed {
			recs[i].Status = StatusCancelled
			return true, nil
		}
	}
	return false, nil
}
