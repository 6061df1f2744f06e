// Package report turns a tracker document into a flat monthly summary the
// worker can mirror to a spreadsheet.
package report

import (
	"fmt"

	"comeback/internal/core"
)

// Row is one bill line of a monthly report, in category order.
type Row struct {
	Category core.Category `json:"category"`
	Name     string        `json:"name"`
	Budgeted core.Money    `json:"budgeted"`
	Actual   core.Money    `json:"actual"`
	DueDay   int           `json:"dueDay"`
	Status   core.Status   `json:"status"`
}

// Report is the aggregated view of one month.
type Report struct {
	Month      int        `json:"month"`
	MonthLabel string     `json:"monthLabel"`
	Income     core.Money `json:"income"`
	Budgeted   core.Money `json:"budgeted"`
	Actual     core.Money `json:"actual"`
	Remaining  core.Money `json:"remaining"`
	PaidBills  int        `json:"paidBills"`
	TotalBills int        `json:"totalBills"`

	CreditScore int    `json:"creditScore"`
	Milestone   string `json:"milestone,omitempty"`

	SavedThisMonth core.Money `json:"savedThisMonth"`
	TotalSaved     core.Money `json:"totalSaved"`
	GoalPercent    float64    `json:"goalPercent"`

	Rows []Row `json:"rows"`
}

// Build aggregates one month of a document into a report.
func Build(doc *core.Ledger, month int) (*Report, error) {
	if !core.ValidMonth(month) {
		return nil, fmt.Errorf("month %d: %w", month, core.ErrInvalidMonth)
	}

	totals := doc.MonthTotals(month)
	bills := doc.MonthBills(month)

	r := &Report{
		Month:      month,
		MonthLabel: core.MonthNames[month],
		Income:     doc.TotalIncome(),
		Budgeted:   totals.Budgeted,
		Actual:     totals.Actual,
		Remaining:  doc.Remaining(month),
		PaidBills:  doc.PaidCount(month),
		TotalBills: len(bills),

		CreditScore: doc.CreditScores[month],

		SavedThisMonth: doc.Savings[month],
		TotalSaved:     doc.TotalSaved(),
		GoalPercent:    doc.GoalPercent(),
	}
	if m, ok := core.MilestoneFor(doc.CreditScores[month]); ok {
		r.Milestone = m.Label
	}

	for _, group := range core.GroupByCategory(bills) {
		for _, entry := range group.Entries {
			r.Rows = append(r.Rows, Row{
				Category: group.Category,
				Name:     entry.Name,
				Budgeted: entry.Budgeted,
				Actual:   entry.Actual,
				DueDay:   entry.DueDay,
				Status:   entry.Status,
			})
		}
	}
	return r, nil
}
