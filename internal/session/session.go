package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"comeback/internal/core"
)

// SyncStatus is the user-visible persistence state.
type SyncStatus string

const (
	StatusSaved  SyncStatus = "saved"
	StatusSaving SyncStatus = "saving"
	StatusError  SyncStatus = "error"
)

// Session owns the single mutable in-memory ledger for one signed-in user.
// Mutations replace the document reference (the model's operations are
// pure) and arm a debounce timer; when edits quiesce, one flush writes the
// latest document to the local cache and then the remote store. An in-flight
// remote write is never cancelled, and a remote failure never rolls back
// the in-memory document; it only flips the sync status.
type Session struct {
	userID string
	mgr    *Manager

	mu       sync.Mutex
	doc      *core.Ledger
	revision int64
	status   SyncStatus
	warning  string
	timer    *time.Timer
	closed   bool
}

// Start reconciles and returns a live session. Created at sign-in,
// closed at sign-out.
func (m *Manager) Start(ctx context.Context, userID string) *Session {
	doc, _, warning := m.Reconcile(ctx, userID)
	return &Session{
		userID:  userID,
		mgr:     m,
		doc:     doc,
		status:  StatusSaved,
		warning: warning,
	}
}

// Ledger returns the current authoritative document. Callers treat it as
// immutable and go through Apply for changes.
func (s *Session) Ledger() *core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Status reports the persistence state of the latest edits.
func (s *Session) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Warning returns the non-fatal reconciliation warning, if any.
func (s *Session) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

// Apply runs one pure mutation and schedules persistence. Mutations apply
// strictly in call order; rapid successive edits coalesce into a single
// write of the latest document.
func (s *Session) Apply(op func(*core.Ledger) *core.Ledger) *core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.doc
	}
	next := op(s.doc)
	if next == s.doc {
		// Validation-gated no-op: nothing changed, nothing to save.
		return s.doc
	}
	s.doc = next
	s.revision++
	s.status = StatusSaving
	s.scheduleLocked()
	return s.doc
}

// scheduleLocked arms the debounce timer, replacing any pending one.
func (s *Session) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.mgr.debounce, s.flush)
}

// flush persists the latest document: local cache first (best effort),
// then the remote store. The status only reports success if the document
// has not moved on underneath the write.
func (s *Session) flush() {
	s.mu.Lock()
	doc := s.doc
	rev := s.revision
	s.mu.Unlock()

	ctx := context.Background()
	s.mgr.cache.Write(ctx, s.userID, doc)

	err := s.mgr.remote.Write(ctx, s.userID, doc)

	s.mu.Lock()
	stale := rev != s.revision
	if !stale {
		if err != nil {
			s.status = StatusError
		} else {
			s.status = StatusSaved
		}
	}
	s.mu.Unlock()

	if err != nil {
		slog.Warn("Remote save failed, keeping in-memory document",
			"user_id", s.userID, "revision", rev, "error", err)
		return
	}
	if s.mgr.publisher != nil {
		if perr := s.mgr.publisher.PublishLedgerSaved(ctx, s.userID, rev); perr != nil {
			slog.Warn("Failed to publish ledger-saved event",
				"user_id", s.userID, "error", perr)
		}
	}
}

// Close stops the debounce timer and performs a final flush. The session
// must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	dirty := s.status != StatusSaved
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if dirty {
		s.flush()
	}
}
