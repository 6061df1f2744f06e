package core

import (
	"errors"
	"slices"
)

// MonthsPerYear is the fixed size of every per-month collection in a ledger.
const MonthsPerYear = 12

// MonthNames holds the display labels for month indexes 0..11.
var MonthNames = [MonthsPerYear]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

const (
	StatusUnpaid   Status = "unpaid"
	StatusUpcoming Status = "upcoming"
	StatusPartial  Status = "partial"
	StatusPaid     Status = "paid"
)

const (
	CategoryHousing        Category = "Housing"
	CategoryUtilities      Category = "Utilities"
	CategoryTransportation Category = "Transportation"
	CategoryInsurance      Category = "Insurance"
	CategorySubscriptions  Category = "Subscriptions"
	CategoryFood           Category = "Food & Groceries"
	CategoryDebt           Category = "Debt Payments"
	CategoryPersonalCare   Category = "Personal Care"
	CategoryEntertainment  Category = "Entertainment"
	CategoryMedical        Category = "Medical/Health"
	CategoryGiving         Category = "Giving/Tithe"
	CategoryOther          Category = "Other"
)

type (
	// Status is the payment state of one bill entry for one month.
	Status string

	// Category is one of the closed set of expense categories.
	Category string

	// IncomeSource is one recurring income line. Order is display order;
	// names are not required to be unique.
	IncomeSource struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
	}

	// BillEntry is one categorized expense line within a single month.
	BillEntry struct {
		ID       string   `json:"id,omitempty"`
		Name     string   `json:"name"`
		Category Category `json:"category"`
		Budgeted Money    `json:"budgeted"`
		Actual   Money    `json:"actual"`
		DueDay   int      `json:"dueDay"`
		Status   Status   `json:"status"`
	}

	// Ledger is the per-user year record: income sources, twelve months of
	// bills, and twelve credit-score and savings slots.
	Ledger struct {
		Income       []IncomeSource      `json:"income"`
		Bills        map[int][]BillEntry `json:"bills"`
		CreditScores []int               `json:"creditScores"`
		Savings      []Money             `json:"savings"`
	}
)

// ErrInvalidMonth rejects month indexes outside 0..11 on the read paths.
// Mutations never return it; they no-op on invalid input instead.
var ErrInvalidMonth = errors.New("month index out of range")

// statusCycle fixes the circular order used by Next.
var statusCycle = [...]Status{StatusUnpaid, StatusUpcoming, StatusPartial, StatusPaid}

// Categories lists the closed category set in its canonical display order.
var Categories = [...]Category{
	CategoryHousing, CategoryUtilities, CategoryTransportation,
	CategoryInsurance, CategorySubscriptions, CategoryFood,
	CategoryDebt, CategoryPersonalCare, CategoryEntertainment,
	CategoryMedical, CategoryGiving, CategoryOther,
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	for _, v := range statusCycle {
		if s == v {
			return true
		}
	}
	return false
}

// Next advances the status circularly: unpaid, upcoming, partial, paid,
// back to unpaid. Unknown values restart the cycle at unpaid.
func (s Status) Next() Status {
	for i, v := range statusCycle {
		if s == v {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return StatusUnpaid
}

// Valid reports whether c is in the closed category set.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// NormalizeCategory maps absent or unrecognized categories to Other. It is
// applied once at creation and during schema migration, never on read paths.
func NormalizeCategory(c Category) Category {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// ValidMonth reports whether m is a usable month index.
func ValidMonth(m int) bool { return m >= 0 && m < MonthsPerYear }

// NewDefault builds the document every user starts from: two seeded income
// sources, twelve empty bill lists, and zeroed score and savings slots.
func NewDefault() *Ledger {
	bills := make(map[int][]BillEntry, MonthsPerYear)
	for m := 0; m < MonthsPerYear; m++ {
		bills[m] = []BillEntry{}
	}
	return &Ledger{
		Income: []IncomeSource{
			{Name: "Primary Job"},
			{Name: "Side Income"},
		},
		Bills:        bills,
		CreditScores: make([]int, MonthsPerYear),
		Savings:      make([]Money, MonthsPerYear),
	}
}

// Clone returns a deep copy. Mutation operations clone before changing
// anything, so a ledger handed out to callers is never modified through a
// different reference.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Income:       slices.Clone(l.Income),
		Bills:        make(map[int][]BillEntry, len(l.Bills)),
		CreditScores: slices.Clone(l.CreditScores),
		Savings:      slices.Clone(l.Savings),
	}
	for m, entries := range l.Bills {
		c.Bills[m] = slices.Clone(entries)
	}
	return c
}

// MonthBills returns the bill list for one month. A missing key is an empty
// list, never an error.
func (l *Ledger) MonthBills(month int) []BillEntry {
	if !ValidMonth(month) {
		return nil
	}
	return l.Bills[month]
}

// HasMeaningfulData reports whether the document records anything beyond
// the default zero state: any income amount, any budgeted or actual bill
// amount, any credit score, or any savings deposit.
func (l *Ledger) HasMeaningfulData() bool {
	for _, src := range l.Income {
		if src.Amount.Cents > 0 {
			return true
		}
	}
	for _, entries := range l.Bills {
		for _, b := range entries {
			if b.Budgeted.Cents > 0 || b.Actual.Cents > 0 {
				return true
			}
		}
	}
	for _, s := range l.CreditScores {
		if s > 0 {
			return true
		}
	}
	for _, v := range l.Savings {
		if v.Cents > 0 {
			return true
		}
	}
	return false
}
