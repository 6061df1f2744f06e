package core

import (
	"testing"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault()
	if got := len(l.Income); got != 2 {
		t.Fatalf("expected 2 seeded income sources, got %d", got)
	}
	if l.Income[0].Name != "Primary Job" || l.Income[1].Name != "Side Income" {
		t.Fatalf("unexpected seeded income names: %+v", l.Income)
	}
	assertShape(t, l)
	if l.HasMeaningfulData() {
		t.Fatal("default document should count as empty")
	}
}

func TestStatusCycleClosure(t *testing.T) {
	for _, start := range []Status{StatusUnpaid, StatusUpcoming, StatusPartial, StatusPaid} {
		s := start
		for i := 0; i < 4; i++ {
			s = s.Next()
		}
		if s != start {
			t.Fatalf("cycling %q four times gave %q", start, s)
		}
	}
	if got := Status("bogus").Next(); got != StatusUnpaid {
		t.Fatalf("unknown status should restart at unpaid, got %q", got)
	}
}

func TestAddExpenseFanOut(t *testing.T) {
	l := NewDefault()
	next := l.AddExpense(ExpenseInput{
		Name:     "Rent",
		Category: CategoryHousing,
		Budgeted: Money{Cents: 1500_00},
		DueDay:   1,
		Months:   []int{0, 1, 2},
	})
	for m := 0; m < 3; m++ {
		entries := next.MonthBills(m)
		if len(entries) != 1 {
			t.Fatalf("month %d: expected 1 entry, got %d", m, len(entries))
		}
		e := entries[0]
		if e.Name != "Rent" || e.Budgeted.Cents != 1500_00 || e.Status != StatusUnpaid {
			t.Fatalf("month %d: unexpected entry %+v", m, e)
		}
		if e.ID == "" {
			t.Fatalf("month %d: entry has no id", m)
		}
	}
	for m := 3; m < MonthsPerYear; m++ {
		if len(next.MonthBills(m)) != 0 {
			t.Fatalf("month %d should be untouched", m)
		}
	}
	// Purity: the input document is never changed in place.
	if len(l.MonthBills(0)) != 0 {
		t.Fatal("AddExpense mutated its receiver")
	}
	assertShape(t, next)
}

func TestAddExpenseValidationGate(t *testing.T) {
	l := NewDefault()
	next := l.AddExpense(ExpenseInput{Name: "   ", Months: []int{0}})
	if next != l {
		t.Fatal("blank name should be a silent no-op")
	}
}

func TestAddExpenseClampsAndDedupes(t *testing.T) {
	l := NewDefault().AddExpense(ExpenseInput{
		Name:     "Insurance",
		Category: Category("not-a-category"),
		Budgeted: Money{Cents: -5},
		DueDay:   45,
		Months:   []int{7, 7, -1, 12},
	})
	entries := l.MonthBills(7)
	if len(entries) != 1 {
		t.Fatalf("expected single entry despite duplicate month, got %d", len(entries))
	}
	e := entries[0]
	if e.Category != CategoryOther {
		t.Fatalf("unknown category should normalize to Other, got %q", e.Category)
	}
	if e.DueDay != 31 {
		t.Fatalf("due day should clamp to 31, got %d", e.DueDay)
	}
	if e.Budgeted.Cents != 0 {
		t.Fatalf("negative budget should clamp to 0, got %d", e.Budgeted.Cents)
	}
}

func TestEditBillAndCycleStatus(t *testing.T) {
	l := NewDefault().AddExpense(ExpenseInput{Name: "Phone", Category: CategoryUtilities, Months: []int{4}})
	id := l.MonthBills(4)[0].ID

	actual := Money{Cents: 42_50}
	day := 15
	l = l.EditBill(4, id, BillPatch{Actual: &actual, DueDay: &day})
	e := l.MonthBills(4)[0]
	if e.Actual.Cents != 42_50 || e.DueDay != 15 {
		t.Fatalf("edit not applied: %+v", e)
	}

	l = l.CycleStatus(4, id)
	if got := l.MonthBills(4)[0].Status; got != StatusUpcoming {
		t.Fatalf("expected upcoming after one cycle, got %q", got)
	}

	// Stale id: no-op, same document back.
	if next := l.CycleStatus(4, "gone"); next != l {
		t.Fatal("stale id should be a no-op")
	}
}

func TestRemoveFromMonthShiftsIndices(t *testing.T) {
	l := NewDefault().
		AddExpense(ExpenseInput{Name: "A", Months: []int{2}}).
		AddExpense(ExpenseInput{Name: "B", Months: []int{2}}).
		AddExpense(ExpenseInput{Name: "C", Months: []int{2}})
	id := l.MonthBills(2)[1].ID
	l = l.RemoveFromMonth(2, id)
	entries := l.MonthBills(2)
	if len(entries) != 2 || entries[0].Name != "A" || entries[1].Name != "C" {
		t.Fatalf("unexpected entries after removal: %+v", entries)
	}
	assertShape(t, l)
}

func TestRemoveFromAllMonths(t *testing.T) {
	l := NewDefault().
		AddExpense(ExpenseInput{Name: "Gym", Months: []int{0, 1, 2, 3}}).
		AddExpense(ExpenseInput{Name: "Rent", Months: []int{0, 1}})
	id := l.MonthBills(1)[0].ID // Gym in Feb
	l = l.RemoveFromAllMonths(1, id)
	for m := 0; m < MonthsPerYear; m++ {
		for _, b := range l.MonthBills(m) {
			if b.Name == "Gym" {
				t.Fatalf("month %d still has a Gym entry", m)
			}
		}
	}
	if len(l.MonthBills(0)) != 1 || l.MonthBills(0)[0].Name != "Rent" {
		t.Fatal("unrelated entries should survive")
	}
}

func TestIncomeOperations(t *testing.T) {
	l := NewDefault()
	l = l.AddIncomeSource("Freelance", Money{Cents: 800_00})
	if len(l.Income) != 3 {
		t.Fatalf("expected 3 income sources, got %d", len(l.Income))
	}
	l = l.EditIncomeSource(2, "Consulting", Money{Cents: 900_00})
	if l.Income[2].Name != "Consulting" || l.Income[2].Amount.Cents != 900_00 {
		t.Fatalf("edit not applied: %+v", l.Income[2])
	}
	l = l.RemoveIncomeSource(0)
	if len(l.Income) != 2 || l.Income[0].Name != "Side Income" {
		t.Fatalf("unexpected income after removal: %+v", l.Income)
	}
	if next := l.EditIncomeSource(99, "x", Money{}); next != l {
		t.Fatal("out-of-range income edit should be a no-op")
	}
}

func TestSetCreditScoreAndSavings(t *testing.T) {
	l := NewDefault().SetCreditScore(3, 720).SetSavings(3, Money{Cents: 250_00})
	if l.CreditScores[3] != 720 || l.Savings[3].Cents != 250_00 {
		t.Fatalf("writes not applied: scores=%v savings=%v", l.CreditScores, l.Savings)
	}
	l = l.SetCreditScore(3, -10)
	if l.CreditScores[3] != 0 {
		t.Fatalf("negative score should coerce to 0, got %d", l.CreditScores[3])
	}
	if next := l.SetSavings(12, Money{Cents: 1}); next != l {
		t.Fatal("invalid month should be a no-op")
	}
	assertShape(t, l)
}

// assertShape checks the month-count invariant every operation must keep.
func assertShape(t *testing.T, l *Ledger) {
	t.Helper()
	if len(l.Bills) != MonthsPerYear {
		t.Fatalf("bills must have %d keys, got %d", MonthsPerYear, len(l.Bills))
	}
	for m := 0; m < MonthsPerYear; m++ {
		if _, ok := l.Bills[m]; !ok {
			t.Fatalf("bills missing month %d", m)
		}
	}
	if len(l.CreditScores) != MonthsPerYear || len(l.Savings) != MonthsPerYear {
		t.Fatalf("score/savings arrays must have %d slots", MonthsPerYear)
	}
}
