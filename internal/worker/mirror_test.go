package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"comeback/internal/amqp"
	"comeback/internal/core"
	"comeback/internal/remote"
	"comeback/internal/report/memory"
)

func fixedTime(month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestHandleLedgerSavedMirrorsCurrentMonth(t *testing.T) {
	store := remote.NewMemory()
	mirror := memory.New()

	doc := core.NewDefault().
		SetCreditScore(2, 640).
		SetSavings(2, core.Money{Cents: 120_00})
	if err := store.Write(context.Background(), "u1", doc); err != nil {
		t.Fatal(err)
	}

	w := NewMirrorWorker(store, mirror)
	w.now = fixedTime(time.March)

	if err := w.HandleLedgerSaved(&amqp.LedgerSavedMessage{UserID: "u1", Revision: 4}); err != nil {
		t.Fatalf("HandleLedgerSaved: %v", err)
	}

	items := mirror.Items()
	if len(items) != 1 {
		t.Fatalf("mirrored %d reports, want 1", len(items))
	}
	got := items[0]
	if got.UserID != "u1" {
		t.Errorf("UserID = %q", got.UserID)
	}
	if got.Report.Month != 2 || got.Report.CreditScore != 640 {
		t.Errorf("report = %+v", got.Report)
	}
	if got.Report.SavedThisMonth.Cents != 120_00 {
		t.Errorf("SavedThisMonth = %v", got.Report.SavedThisMonth)
	}
}

func TestHandleLedgerSavedMissingDocumentIsDropped(t *testing.T) {
	w := NewMirrorWorker(remote.NewMemory(), memory.New())
	w.now = fixedTime(time.January)

	// No error: the event must not requeue forever.
	if err := w.HandleLedgerSaved(&amqp.LedgerSavedMessage{UserID: "ghost", Revision: 1}); err != nil {
		t.Fatalf("missing document should not error: %v", err)
	}
}

func TestRecheckMirrorsRecentSaves(t *testing.T) {
	store := remote.NewMemory()
	mirror := memory.New()

	for _, userID := range []string{"u1", "u2"} {
		if err := store.Write(context.Background(), userID, core.NewDefault()); err != nil {
			t.Fatal(err)
		}
	}

	w := NewMirrorWorker(store, mirror)

	count, err := w.Recheck(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("Recheck: %v", err)
	}
	if count != 2 {
		t.Errorf("mirrored %d documents, want 2", count)
	}
	if items := mirror.Items(); len(items) != 2 {
		t.Errorf("mirror holds %d reports, want 2", len(items))
	}
}

func TestRecheckIgnoresOldSaves(t *testing.T) {
	store := remote.NewMemory()
	mirror := memory.New()

	if err := store.Write(context.Background(), "u1", core.NewDefault()); err != nil {
		t.Fatal(err)
	}

	w := NewMirrorWorker(store, mirror)
	// A sweep window ending before the write happened.
	w.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	count, err := w.Recheck(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("Recheck: %v", err)
	}
	if count != 0 {
		t.Errorf("mirrored %d documents, want 0", count)
	}
}

func TestHandleLedgerSavedStoreFailurePropagates(t *testing.T) {
	store := remote.NewMemory()
	store.FailWith(errors.New("connection reset"))

	w := NewMirrorWorker(store, memory.New())
	w.now = fixedTime(time.January)

	if err := w.HandleLedgerSaved(&amqp.LedgerSavedMessage{UserID: "u1", Revision: 1}); err == nil {
		t.Fatal("store failure should surface so the delivery requeues")
	}
}
