package http

import (
	"net/http"

	"comeback/internal/core"
	"comeback/internal/report"
)

// monthSummary is the dashboard header for one month.
type monthSummary struct {
	Month        int               `json:"month"`
	MonthLabel   string            `json:"monthLabel"`
	TotalIncome  core.Money        `json:"totalIncome"`
	Totals       core.MonthTotals  `json:"totals"`
	Remaining    core.Money        `json:"remaining"`
	PaidBills    int               `json:"paidBills"`
	TotalBills   int               `json:"totalBills"`
	CreditScore  int               `json:"creditScore"`
	Milestone    *core.Milestone   `json:"milestone,omitempty"`
	NextGoal     *core.Milestone   `json:"nextGoal,omitempty"`
	ScorePercent float64           `json:"scorePercent"`
	Savings      core.SavingsStats `json:"savings"`
	TotalSaved   core.Money        `json:"totalSaved"`
	SavingsGoal  core.Money        `json:"savingsGoal"`
	GoalPercent  float64           `json:"goalPercent"`
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	doc := sess.Ledger()
	score := doc.CreditScores[month]

	out := monthSummary{
		Month:        month,
		MonthLabel:   core.MonthNames[month],
		TotalIncome:  doc.TotalIncome(),
		Totals:       doc.MonthTotals(month),
		Remaining:    doc.Remaining(month),
		PaidBills:    doc.PaidCount(month),
		TotalBills:   len(doc.MonthBills(month)),
		CreditScore:  score,
		ScorePercent: core.ScorePercent(score),
		Savings:      doc.SavingsStats(),
		TotalSaved:   doc.TotalSaved(),
		SavingsGoal:  core.SavingsGoal,
		GoalPercent:  doc.GoalPercent(),
	}
	if m, ok := core.MilestoneFor(score); ok {
		out.Milestone = &m
	}
	if n, ok := core.NextMilestone(score); ok {
		out.NextGoal = &n
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGroupedBills(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	groups := core.GroupByCategory(sess.Ledger().MonthBills(month))
	if groups == nil {
		groups = []core.CategoryGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	rep, err := report.Build(sess.Ledger(), month)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
