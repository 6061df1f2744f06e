package report

import (
	"errors"
	"testing"

	"comeback/internal/core"
)

func TestBuildRejectsBadMonth(t *testing.T) {
	doc := core.NewDefault()
	for _, month := range []int{-1, 12, 99} {
		if _, err := Build(doc, month); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("Build(%d) = %v, want ErrInvalidMonth", month, err)
		}
	}
}

func TestBuildAggregatesMonth(t *testing.T) {
	doc := core.NewDefault().
		EditIncomeSource(0, "Primary Job", core.Money{Cents: 3000_00}).
		AddExpense(core.ExpenseInput{
			Name:     "Rent",
			Category: core.CategoryHousing,
			Budgeted: core.Money{Cents: 1200_00},
			DueDay:   1,
			Months:   []int{3},
		}).
		AddExpense(core.ExpenseInput{
			Name:     "Netflix",
			Category: core.CategorySubscriptions,
			Budgeted: core.Money{Cents: 15_00},
			DueDay:   14,
			Months:   []int{3},
		}).
		SetCreditScore(3, 710).
		SetSavings(3, core.Money{Cents: 250_00}).
		SetSavings(0, core.Money{Cents: 100_00})

	// Mark rent paid with a real amount.
	rentID := doc.MonthBills(3)[0].ID
	actual := core.Money{Cents: 1180_00}
	doc = doc.EditBill(3, rentID, core.BillPatch{Actual: &actual}).
		CycleStatus(3, rentID). // upcoming
		CycleStatus(3, rentID). // partial
		CycleStatus(3, rentID) // paid

	r, err := Build(doc, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if r.MonthLabel != "Apr" {
		t.Errorf("MonthLabel = %q", r.MonthLabel)
	}
	if r.Income.Cents != 3000_00 {
		t.Errorf("Income = %v", r.Income)
	}
	if r.Budgeted.Cents != 1215_00 || r.Actual.Cents != 1180_00 {
		t.Errorf("totals = %v / %v", r.Budgeted, r.Actual)
	}
	if r.Remaining.Cents != 3000_00-1215_00 {
		t.Errorf("Remaining = %v", r.Remaining)
	}
	if r.PaidBills != 1 || r.TotalBills != 2 {
		t.Errorf("paid/total = %d/%d", r.PaidBills, r.TotalBills)
	}
	if r.CreditScore != 710 || r.Milestone != "The Club" {
		t.Errorf("score %d milestone %q", r.CreditScore, r.Milestone)
	}
	if r.SavedThisMonth.Cents != 250_00 || r.TotalSaved.Cents != 350_00 {
		t.Errorf("savings = %v / %v", r.SavedThisMonth, r.TotalSaved)
	}

	// Rows come out in canonical category order: Housing before Subscriptions.
	if len(r.Rows) != 2 || r.Rows[0].Name != "Rent" || r.Rows[1].Name != "Netflix" {
		t.Fatalf("rows = %+v", r.Rows)
	}
	if r.Rows[0].Status != core.StatusPaid {
		t.Errorf("rent status = %v", r.Rows[0].Status)
	}
}

func TestBuildEmptyMonth(t *testing.T) {
	r, err := Build(core.NewDefault(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.TotalBills != 0 || len(r.Rows) != 0 {
		t.Fatalf("empty month rows = %+v", r.Rows)
	}
	if r.Milestone != "" {
		t.Errorf("milestone for zero score = %q", r.Milestone)
	}
}
