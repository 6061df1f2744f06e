// Package memory is an in-memory report mirror used in tests and local
// development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"comeback/internal/report"
)

type Entry struct {
	UserID string
	Report *report.Report
}

type Store struct {
	mu    sync.Mutex
	items []Entry
}

var _ report.Mirror = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendReport stores the report and returns a synthetic row reference.
func (s *Store) AppendReport(_ context.Context, userID string, r *report.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, Entry{UserID: userID, Report: r})
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a copy of everything mirrored so far.
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.items...)
}
