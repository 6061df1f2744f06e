// Package session resolves one authoritative ledger per signed-in user and
// keeps it persisted: reconciliation at session start, then debounced
// write-behind to the local cache and the remote store after every edit.
package session

import (
	"context"
	"log/slog"
	"time"

	"comeback/internal/core"
	"comeback/internal/remote"
	"comeback/internal/storage"
)

// Publisher is the optional sync-event hook; a saved ledger announces
// itself so out-of-process consumers (the report mirror) can react.
type Publisher interface {
	PublishLedgerSaved(ctx context.Context, userID string, revision int64) error
}

// Manager wires the stores a session persists through.
type Manager struct {
	cache     *storage.Cache
	remote    remote.Store
	publisher Publisher // may be nil
	debounce  time.Duration
}

// Source says which branch of the reconciliation decision table produced
// the authoritative document.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

func NewManager(cache *storage.Cache, remoteStore remote.Store, publisher Publisher, debounce time.Duration) *Manager {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Manager{cache: cache, remote: remoteStore, publisher: publisher, debounce: debounce}
}

// Reconcile produces exactly one authoritative document at session start.
//
// Remote data wins outright. With no remote document, a local cache that
// holds meaningful data is migrated up and seeded to the remote store
// (the first-login migration); otherwise a fresh default is created and
// seeded. A remote transport failure is never fatal: the session falls
// back to local or default data and carries a warning instead.
// Whatever branch wins, the result lands in the local cache so the backup
// copy always matches the session.
func (m *Manager) Reconcile(ctx context.Context, userID string) (*core.Ledger, Source, string) {
	var (
		doc     *core.Ledger
		source  Source
		warning string
	)

	remoteDoc, remoteOK, err := m.remote.Read(ctx, userID)
	localDoc, localOK := m.cache.Read(ctx, userID)

	switch {
	case err != nil:
		// Transport/auth failure, not absence: keep the user working on
		// whatever is at hand and say so.
		slog.WarnContext(ctx, "Remote read failed, falling back",
			"user_id", userID, "error", err)
		warning = "cloud data unavailable, working from this device"
		if localOK && localDoc.HasMeaningfulData() {
			doc, source = localDoc.Migrate(), SourceLocal
		} else {
			doc, source = core.NewDefault(), SourceDefault
		}

	case remoteOK:
		doc, source = remoteDoc.Migrate(), SourceRemote

	case localOK && localDoc.HasMeaningfulData():
		doc, source = localDoc.Migrate(), SourceLocal
		m.seedRemote(ctx, userID, doc)

	default:
		doc, source = core.NewDefault(), SourceDefault
		m.seedRemote(ctx, userID, doc)
	}

	m.cache.Write(ctx, userID, doc)
	slog.InfoContext(ctx, "Session reconciled", "user_id", userID, "source", source)
	return doc, source, warning
}

func (m *Manager) seedRemote(ctx context.Context, userID string, doc *core.Ledger) {
	if err := m.remote.Write(ctx, userID, doc); err != nil {
		// The debounced saver will retry on the next edit.
		slog.WarnContext(ctx, "Failed to seed remote store",
			"user_id", userID, "error", err)
	}
}
