package core

import (
	"testing"
)

func monthWithBills(t *testing.T, amounts [][2]int64) *Ledger {
	t.Helper()
	l := NewDefault()
	for i, a := range amounts {
		l = l.AddExpense(ExpenseInput{Name: "Bill", Months: []int{0}})
		id := l.MonthBills(0)[i].ID
		budg := Money{Cents: a[0]}
		act := Money{Cents: a[1]}
		l = l.EditBill(0, id, BillPatch{Budgeted: &budg, Actual: &act})
	}
	return l
}

func TestMonthTotalsConservation(t *testing.T) {
	l := monthWithBills(t, [][2]int64{{1500_00, 1480_33}, {99_99, 120_01}, {0, 45_67}})
	tot := l.MonthTotals(0)
	if tot.Budgeted.Cents != 1599_99 || tot.Actual.Cents != 1646_01 {
		t.Fatalf("unexpected totals: %+v", tot)
	}
	if tot.Diff.Cents != tot.Budgeted.Cents-tot.Actual.Cents {
		t.Fatalf("diff must equal budgeted-actual to the cent: %+v", tot)
	}
	// Empty month is defined too.
	empty := l.MonthTotals(5)
	if empty.Budgeted.Cents != 0 || empty.Actual.Cents != 0 || empty.Diff.Cents != 0 {
		t.Fatalf("empty month totals should be zero: %+v", empty)
	}
}

func TestRemaining(t *testing.T) {
	l := monthWithBills(t, [][2]int64{{0, 800_00}})
	l = l.EditIncomeSource(0, "Primary Job", Money{Cents: 500_00})
	if got := l.Remaining(0).Cents; got != -300_00 {
		t.Fatalf("remaining = %d, want -30000", got)
	}
}

func TestSavingsSums(t *testing.T) {
	l := NewDefault().
		SetSavings(0, Money{Cents: 1000_00}).
		SetSavings(1, Money{Cents: 1000_00})
	if got := l.TotalSaved().Cents; got != 2000_00 {
		t.Fatalf("totalSaved = %d", got)
	}
	if got := l.CumulativeSavings(1).Cents; got != 2000_00 {
		t.Fatalf("cumulative through Feb = %d", got)
	}
	if got := l.CumulativeSavings(0).Cents; got != 1000_00 {
		t.Fatalf("cumulative through Jan = %d", got)
	}
	// Full-year sum is independent of the selected month.
	if got := l.CumulativeSavings(11).Cents; got != l.TotalSaved().Cents {
		t.Fatalf("year-end cumulative %d != totalSaved %d", got, l.TotalSaved().Cents)
	}

	stats := l.SavingsStats()
	if stats.MonthsActive != 2 || stats.MonthlyAverage.Cents != 1000_00 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Remaining.Cents != 18_000_00 {
		t.Fatalf("remaining to goal = %d", stats.Remaining.Cents)
	}
}

func TestGroupByCategoryOrderAndCompleteness(t *testing.T) {
	bills := []BillEntry{
		{ID: "a", Name: "Netflix", Category: CategorySubscriptions},
		{ID: "b", Name: "Rent", Category: CategoryHousing},
		{ID: "c", Name: "Mystery", Category: Category("Crypto")},
		{ID: "d", Name: "Water", Category: CategoryHousing},
		{ID: "e", Name: "Copay", Category: CategoryMedical},
	}
	groups := GroupByCategory(bills)

	// Canonical order first, then unknown categories in first-seen order.
	wantOrder := []Category{CategoryHousing, CategorySubscriptions, CategoryMedical, Category("Crypto")}
	if len(groups) != len(wantOrder) {
		t.Fatalf("expected %d groups, got %d", len(wantOrder), len(groups))
	}
	for i, g := range groups {
		if g.Category != wantOrder[i] {
			t.Fatalf("group %d = %q, want %q", i, g.Category, wantOrder[i])
		}
	}

	// Completeness: concatenation is a permutation with every original
	// index appearing exactly once.
	seen := make(map[int]bool)
	total := 0
	for _, g := range groups {
		for _, e := range g.Entries {
			if seen[e.Index] {
				t.Fatalf("index %d appears twice", e.Index)
			}
			seen[e.Index] = true
			if bills[e.Index].ID != e.ID {
				t.Fatalf("index %d points at wrong entry", e.Index)
			}
			total++
		}
	}
	if total != len(bills) {
		t.Fatalf("grouping lost entries: %d of %d", total, len(bills))
	}
}

func TestMilestones(t *testing.T) {
	cur, ok := MilestoneFor(720)
	if !ok || cur.Score != 700 {
		t.Fatalf("MilestoneFor(720) = %+v, %v", cur, ok)
	}
	next, ok := NextMilestone(720)
	if !ok || next.Score != 740 {
		t.Fatalf("NextMilestone(720) = %+v, %v", next, ok)
	}

	// Positive score under the lowest rung still lands on the lowest rung.
	cur, ok = MilestoneFor(450)
	if !ok || cur.Score != 500 {
		t.Fatalf("MilestoneFor(450) = %+v, %v", cur, ok)
	}
	// Unset score has no milestone.
	if _, ok := MilestoneFor(0); ok {
		t.Fatal("MilestoneFor(0) should report none")
	}
	// Top of the ladder is terminal.
	if _, ok := NextMilestone(810); ok {
		t.Fatal("NextMilestone(810) should report none")
	}
}

func TestScorePercent(t *testing.T) {
	cases := []struct {
		score int
		want  float64
	}{
		{300, 0},
		{850, 1},
		{575, 0.5},
		{0, 0},
		{900, 1},
	}
	for _, tc := range cases {
		if got := ScorePercent(tc.score); got != tc.want {
			t.Fatalf("ScorePercent(%d) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestPaidCount(t *testing.T) {
	l := NewDefault().
		AddExpense(ExpenseInput{Name: "A", Months: []int{0}}).
		AddExpense(ExpenseInput{Name: "B", Months: []int{0}})
	id := l.MonthBills(0)[0].ID
	for i := 0; i < 3; i++ {
		l = l.CycleStatus(0, id)
	}
	if got := l.PaidCount(0); got != 1 {
		t.Fatalf("paidCount = %d, want 1", got)
	}
}
