// Package remote talks to the remote document store: one ledger document
// per user, keyed by the authenticated user id, point lookup and upsert
// only. Absence of a document is an ordinary outcome here; only transport
// problems are errors, and the reconciliation protocol decides what a
// transport problem means.
package remote

import (
	"context"
	"time"

	"comeback/internal/core"
)

// Store is the port the reconciliation protocol and session saver use.
type Store interface {
	// Read fetches the user's document. ok is false when the user has no
	// document yet, which is not an error. A non-nil error means the store
	// could not be consulted at all.
	Read(ctx context.Context, userID string) (doc *core.Ledger, ok bool, err error)

	// Write upserts the user's document: at most one document per user
	// ever exists remotely.
	Write(ctx context.Context, userID string, doc *core.Ledger) error
}

// Lister is the optional listing side of a store, used by the mirror
// worker's periodic re-check to find documents saved while the event
// queue was unavailable.
type Lister interface {
	// UpdatedSince returns the ids of users whose document was written at
	// or after the given instant.
	UpdatedSince(ctx context.Context, since time.Time) ([]string, error)
}
