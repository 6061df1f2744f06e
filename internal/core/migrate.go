package core

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Migrate repairs a document that may be in an older or partial shape and
// returns it in the current shape: missing month keys become empty lists,
// score and savings arrays are resized to twelve slots, unknown categories
// become Other, invalid statuses reset to unpaid, due days clamp to [1,31],
// negative amounts drop to zero, and entries without an id get one.
//
// Apart from id assignment the pass is a pure normalization; applying it to
// an already-migrated document changes nothing.
func (l *Ledger) Migrate() *Ledger {
	next := &Ledger{
		Income:       make([]IncomeSource, 0, len(l.Income)),
		Bills:        make(map[int][]BillEntry, MonthsPerYear),
		CreditScores: make([]int, MonthsPerYear),
		Savings:      make([]Money, MonthsPerYear),
	}
	for _, src := range l.Income {
		src.Amount = clampAmount(src.Amount)
		next.Income = append(next.Income, src)
	}
	for m := 0; m < MonthsPerYear; m++ {
		entries := l.Bills[m]
		fixed := make([]BillEntry, 0, len(entries))
		for _, b := range entries {
			if b.ID == "" {
				b.ID = uuid.NewString()
			}
			b.Category = NormalizeCategory(b.Category)
			if !b.Status.Valid() {
				b.Status = StatusUnpaid
			}
			b.DueDay = clampDueDay(b.DueDay)
			b.Budgeted = clampAmount(b.Budgeted)
			b.Actual = clampAmount(b.Actual)
			fixed = append(fixed, b)
		}
		next.Bills[m] = fixed
	}
	for m := 0; m < MonthsPerYear && m < len(l.CreditScores); m++ {
		if s := l.CreditScores[m]; s > 0 {
			next.CreditScores[m] = s
		}
	}
	for m := 0; m < MonthsPerYear && m < len(l.Savings); m++ {
		next.Savings[m] = clampAmount(l.Savings[m])
	}
	return next
}

// DecodeLedger parses a stored document and runs the migration pass, so
// callers always receive the current shape. Only malformed JSON is an
// error; shape problems are repaired, not reported.
func DecodeLedger(data []byte) (*Ledger, error) {
	var doc Ledger
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return doc.Migrate(), nil
}

// Encode serializes the document in the current shape.
func (l *Ledger) Encode() ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return data, nil
}
