package core

// Read-only aggregation over a ledger. Every function here is total: it is
// defined for any well-formed document, including an all-empty one, does no
// I/O, and never mutates its input. Sums run on cents, so results are exact
// to the displayed two decimal places.

// SavingsGoal is the fixed full-year savings target.
var SavingsGoal = Money{Cents: 20_000_00}

// MonthTotals is the budget summary for one month's bills.
type MonthTotals struct {
	Budgeted Money `json:"budgeted"`
	Actual   Money `json:"actual"`
	Diff     Money `json:"diff"`
}

// IndexedEntry is a bill entry tagged with its original position in the
// month's sequence, so grouped views can write edits back unambiguously.
type IndexedEntry struct {
	BillEntry
	Index int `json:"index"`
}

// CategoryGroup is one non-empty category bucket of a month's bills.
type CategoryGroup struct {
	Category Category       `json:"category"`
	Entries  []IndexedEntry `json:"entries"`
}

// SavingsStats summarizes progress toward the savings goal.
type SavingsStats struct {
	MonthlyAverage Money `json:"monthlyAverage"`
	Remaining      Money `json:"remaining"`
	MonthsActive   int   `json:"monthsActive"`
}

// TotalIncome sums all income sources.
func (l *Ledger) TotalIncome() Money {
	var cents int64
	for _, src := range l.Income {
		cents += src.Amount.Cents
	}
	return Money{Cents: cents}
}

// MonthTotals sums one month's budgeted and actual amounts. Diff is
// budgeted minus actual, exactly.
func (l *Ledger) MonthTotals(month int) MonthTotals {
	var t MonthTotals
	for _, b := range l.MonthBills(month) {
		t.Budgeted.Cents += b.Budgeted.Cents
		t.Actual.Cents += b.Actual.Cents
	}
	t.Diff.Cents = t.Budgeted.Cents - t.Actual.Cents
	return t
}

// Remaining is total income minus the month's actual spend. May be negative.
func (l *Ledger) Remaining(month int) Money {
	return Money{Cents: l.TotalIncome().Cents - l.MonthTotals(month).Actual.Cents}
}

// TotalSaved is the full-year savings sum, independent of any selected month.
func (l *Ledger) TotalSaved() Money {
	var cents int64
	for _, v := range l.Savings {
		cents += v.Cents
	}
	return Money{Cents: cents}
}

// CumulativeSavings is the running total saved through uptoMonth inclusive.
func (l *Ledger) CumulativeSavings(uptoMonth int) Money {
	var cents int64
	for m := 0; m <= uptoMonth && m < len(l.Savings); m++ {
		cents += l.Savings[m].Cents
	}
	return Money{Cents: cents}
}

// PaidCount counts the month's entries already marked paid.
func (l *Ledger) PaidCount(month int) int {
	n := 0
	for _, b := range l.MonthBills(month) {
		if b.Status == StatusPaid {
			n++
		}
	}
	return n
}

// SavingsStats reports the average deposit over months with a deposit, the
// amount still needed for the goal, and how many months were active.
func (l *Ledger) SavingsStats() SavingsStats {
	var stats SavingsStats
	for _, v := range l.Savings {
		if v.Cents > 0 {
			stats.MonthsActive++
		}
	}
	total := l.TotalSaved()
	active := stats.MonthsActive
	if active == 0 {
		active = 1
	}
	stats.MonthlyAverage = Money{Cents: total.Cents / int64(active)}
	if rem := SavingsGoal.Cents - total.Cents; rem > 0 {
		stats.Remaining = Money{Cents: rem}
	}
	return stats
}

// GoalPercent is the fraction of the savings goal reached, capped at 1.
func (l *Ledger) GoalPercent() float64 {
	p := float64(l.TotalSaved().Cents) / float64(SavingsGoal.Cents)
	if p > 1 {
		return 1
	}
	return p
}

// GroupByCategory buckets one month's bills by category. Groups follow the
// canonical category order; categories outside the closed set (legacy data
// that predates migration) trail in first-seen order. Every entry keeps its
// original positional index, so the concatenation of all groups is an exact
// permutation of the input.
func GroupByCategory(bills []BillEntry) []CategoryGroup {
	buckets := make(map[Category][]IndexedEntry)
	var extraOrder []Category
	for i, b := range bills {
		cat := b.Category
		if cat == "" {
			cat = CategoryOther
		}
		if _, ok := buckets[cat]; !ok && !cat.Valid() {
			extraOrder = append(extraOrder, cat)
		}
		buckets[cat] = append(buckets[cat], IndexedEntry{BillEntry: b, Index: i})
	}
	groups := make([]CategoryGroup, 0, len(buckets))
	for _, cat := range Categories {
		if entries, ok := buckets[cat]; ok {
			groups = append(groups, CategoryGroup{Category: cat, Entries: entries})
		}
	}
	for _, cat := range extraOrder {
		groups = append(groups, CategoryGroup{Category: cat, Entries: buckets[cat]})
	}
	return groups
}
