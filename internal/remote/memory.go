package remote

import (
	"context"
	"sort"
	"sync"
	"time"

	"comeback/internal/core"
)

// Memory is an in-process Store used by tests and as a no-network backend.
// FailWith makes every call return the given error, which is how tests
// exercise the transport-failure branches of reconciliation.
type Memory struct {
	mu      sync.Mutex
	docs    map[string]string
	writeAt map[string]time.Time
	fail    error
}

var _ Store = (*Memory)(nil)
var _ Lister = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		docs:    make(map[string]string),
		writeAt: make(map[string]time.Time),
	}
}

// FailWith switches the store into a failing state; nil restores it.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *Memory) Read(_ context.Context, userID string) (*core.Ledger, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, false, m.fail
	}
	raw, ok := m.docs[userID]
	if !ok {
		return nil, false, nil
	}
	doc, err := core.DecodeLedger([]byte(raw))
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (m *Memory) Write(_ context.Context, userID string, doc *core.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	m.docs[userID] = string(data)
	m.writeAt[userID] = time.Now()
	return nil
}

func (m *Memory) UpdatedSince(_ context.Context, since time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var ids []string
	for userID, at := range m.writeAt {
		if !at.Before(since) {
			ids = append(ids, userID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Len reports how many user documents the store holds.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}
