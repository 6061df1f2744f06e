package core

import (
	"strings"

	"github.com/google/uuid"
)

// All mutation operations are pure: the receiver is never changed in place.
// Callers replace their reference with the returned document, which keeps a
// single authoritative copy per session and makes undo trivial to add later.
// Operations addressing an entry that no longer exists (a stale id after a
// structural change) return the receiver unchanged.

// ExpenseInput describes one "add expense" request. The same conceptual
// bill may fan out into several months at once.
type ExpenseInput struct {
	Name     string
	Category Category
	Budgeted Money
	DueDay   int
	Months   []int
}

// AddExpense appends a new unpaid entry to every selected month. An empty
// name after trimming is a validation gate, not an error: the document is
// returned unchanged.
func (l *Ledger) AddExpense(in ExpenseInput) *Ledger {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return l
	}
	next := l.Clone()
	entry := BillEntry{
		Name:     name,
		Category: NormalizeCategory(in.Category),
		Budgeted: clampAmount(in.Budgeted),
		DueDay:   clampDueDay(in.DueDay),
		Status:   StatusUnpaid,
	}
	var seen [MonthsPerYear]bool
	for _, m := range in.Months {
		if !ValidMonth(m) || seen[m] {
			continue
		}
		seen[m] = true
		entry.ID = uuid.NewString()
		next.Bills[m] = append(next.Bills[m], entry)
	}
	return next
}

// BillPatch carries optional field edits for one entry. Nil fields are left
// untouched.
type BillPatch struct {
	Name     *string
	Category *Category
	Budgeted *Money
	Actual   *Money
	DueDay   *int
}

// EditBill applies a partial edit to the entry with the given id in one
// month. Amounts clamp to non-negative and the due day to [1,31] on write.
func (l *Ledger) EditBill(month int, id string, patch BillPatch) *Ledger {
	return l.withBill(month, id, func(b *BillEntry) {
		if patch.Name != nil {
			if name := strings.TrimSpace(*patch.Name); name != "" {
				b.Name = name
			}
		}
		if patch.Category != nil {
			b.Category = NormalizeCategory(*patch.Category)
		}
		if patch.Budgeted != nil {
			b.Budgeted = clampAmount(*patch.Budgeted)
		}
		if patch.Actual != nil {
			b.Actual = clampAmount(*patch.Actual)
		}
		if patch.DueDay != nil {
			b.DueDay = clampDueDay(*patch.DueDay)
		}
	})
}

// CycleStatus advances one entry's status through the circular order.
func (l *Ledger) CycleStatus(month int, id string) *Ledger {
	return l.withBill(month, id, func(b *BillEntry) {
		b.Status = b.Status.Next()
	})
}

// RemoveFromMonth deletes one entry from exactly one month, shifting later
// entries of that month down by one.
func (l *Ledger) RemoveFromMonth(month int, id string) *Ledger {
	if !ValidMonth(month) {
		return l
	}
	idx := indexOfBill(l.Bills[month], id)
	if idx < 0 {
		return l
	}
	next := l.Clone()
	entries := next.Bills[month]
	next.Bills[month] = append(entries[:idx], entries[idx+1:]...)
	return next
}

// RemoveFromAllMonths deletes every entry sharing the given entry's name
// from all twelve months. Name is the fan-out origin marker: entries
// created together by one AddExpense carry the same name.
func (l *Ledger) RemoveFromAllMonths(month int, id string) *Ledger {
	if !ValidMonth(month) {
		return l
	}
	idx := indexOfBill(l.Bills[month], id)
	if idx < 0 {
		return l
	}
	name := l.Bills[month][idx].Name
	next := l.Clone()
	for m := 0; m < MonthsPerYear; m++ {
		kept := next.Bills[m][:0]
		for _, b := range next.Bills[m] {
			if b.Name != name {
				kept = append(kept, b)
			}
		}
		next.Bills[m] = kept
	}
	return next
}

// AddIncomeSource appends an income line. A blank name gets the same
// placeholder the original form seeds new rows with.
func (l *Ledger) AddIncomeSource(name string, amount Money) *Ledger {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Source"
	}
	next := l.Clone()
	next.Income = append(next.Income, IncomeSource{Name: name, Amount: clampAmount(amount)})
	return next
}

// EditIncomeSource replaces one income line in place. Income identity is
// positional: the list is short and user-ordered.
func (l *Ledger) EditIncomeSource(index int, name string, amount Money) *Ledger {
	if index < 0 || index >= len(l.Income) {
		return l
	}
	next := l.Clone()
	if name = strings.TrimSpace(name); name != "" {
		next.Income[index].Name = name
	}
	next.Income[index].Amount = clampAmount(amount)
	return next
}

// RemoveIncomeSource deletes one income line.
func (l *Ledger) RemoveIncomeSource(index int) *Ledger {
	if index < 0 || index >= len(l.Income) {
		return l
	}
	next := l.Clone()
	next.Income = append(next.Income[:index], next.Income[index+1:]...)
	return next
}

// SetCreditScore writes one month's score. Negative values coerce to the
// zero "unset" sentinel.
func (l *Ledger) SetCreditScore(month, score int) *Ledger {
	if !ValidMonth(month) {
		return l
	}
	if score < 0 {
		score = 0
	}
	next := l.Clone()
	next.CreditScores[month] = score
	return next
}

// SetSavings writes the amount saved in one month (not cumulative).
func (l *Ledger) SetSavings(month int, amount Money) *Ledger {
	if !ValidMonth(month) {
		return l
	}
	next := l.Clone()
	next.Savings[month] = clampAmount(amount)
	return next
}

func (l *Ledger) withBill(month int, id string, fn func(*BillEntry)) *Ledger {
	if !ValidMonth(month) {
		return l
	}
	idx := indexOfBill(l.Bills[month], id)
	if idx < 0 {
		return l
	}
	next := l.Clone()
	fn(&next.Bills[month][idx])
	return next
}

func indexOfBill(entries []BillEntry, id string) int {
	for i, b := range entries {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func clampAmount(m Money) Money {
	if m.Cents < 0 {
		return Money{}
	}
	return m
}

func clampDueDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return day
}
