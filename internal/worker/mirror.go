// Package worker mirrors saved tracker documents to the report sink. It
// consumes ledger-saved events and re-renders the current month's report
// for the user the event names.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"comeback/internal/amqp"
	"comeback/internal/core"
	"comeback/internal/remote"
	"comeback/internal/report"
)

// MirrorWorker reads saved documents from the remote store and appends
// monthly reports to the mirror.
type MirrorWorker struct {
	store  remote.Store
	mirror report.Mirror

	// now is swappable in tests.
	now func() time.Time
}

func NewMirrorWorker(store remote.Store, mirror report.Mirror) *MirrorWorker {
	return &MirrorWorker{
		store:  store,
		mirror: mirror,
		now:    time.Now,
	}
}

// HandleLedgerSaved processes one ledger-saved event: fetch the user's
// document and mirror the current month's report.
func (w *MirrorWorker) HandleLedgerSaved(msg *amqp.LedgerSavedMessage) error {
	ctx := context.Background()

	doc, ok, err := w.store.Read(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("read document for %s: %w", msg.UserID, err)
	}
	if !ok {
		// Saved then deleted, or the event outran the write. Nothing to
		// mirror; do not requeue.
		slog.WarnContext(ctx, "No document for ledger-saved event",
			"user_id", msg.UserID,
			"revision", msg.Revision)
		return nil
	}

	ref, label, err := w.mirrorDocument(ctx, msg.UserID, doc)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Mirrored report for saved ledger",
		"user_id", msg.UserID,
		"revision", msg.Revision,
		"month", label,
		"sheets_ref", ref)
	return nil
}

// Recheck sweeps documents written within the given window and mirrors
// each one. It catches saves whose events were lost while the queue was
// unreachable; duplicates with event-driven mirroring are acceptable
// since the sheet is append-only and rows carry their month.
func (w *MirrorWorker) Recheck(ctx context.Context, window time.Duration) (int, error) {
	lister, ok := w.store.(remote.Lister)
	if !ok {
		return 0, nil
	}

	ids, err := lister.UpdatedSince(ctx, w.now().Add(-window))
	if err != nil {
		return 0, fmt.Errorf("list recently saved documents: %w", err)
	}

	mirrored := 0
	for _, userID := range ids {
		doc, found, err := w.store.Read(ctx, userID)
		if err != nil {
			return mirrored, fmt.Errorf("read document for %s: %w", userID, err)
		}
		if !found {
			continue
		}
		if _, _, err := w.mirrorDocument(ctx, userID, doc); err != nil {
			return mirrored, err
		}
		mirrored++
	}
	return mirrored, nil
}

// mirrorDocument appends the current month's report for one document.
func (w *MirrorWorker) mirrorDocument(ctx context.Context, userID string, doc *core.Ledger) (ref, monthLabel string, err error) {
	month := int(w.now().Month()) - 1
	rep, err := report.Build(doc, month)
	if err != nil {
		return "", "", fmt.Errorf("build report for %s: %w", userID, err)
	}

	ref, err = w.mirror.AppendReport(ctx, userID, rep)
	if err != nil {
		return "", "", fmt.Errorf("mirror report for %s: %w", userID, err)
	}
	return ref, rep.MonthLabel, nil
}
