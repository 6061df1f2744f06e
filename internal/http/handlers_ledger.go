package http

import (
	"encoding/json"
	"net/http"

	"comeback/internal/core"
	applog "comeback/internal/log"
)

// scoreValue decodes a credit score sent either as a JSON number or as the
// raw text of a score input field.
type scoreValue int

func (v *scoreValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = scoreValue(core.ParseScore(s))
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = scoreValue(n)
	return nil
}

// ledgerResponse is the document plus the session's persistence state.
type ledgerResponse struct {
	Ledger     *core.Ledger `json:"ledger"`
	SyncStatus string       `json:"syncStatus"`
	Warning    string       `json:"warning,omitempty"`
}

func (s *Server) ledgerJSON(w http.ResponseWriter, r *http.Request, status int) {
	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	writeJSON(w, status, ledgerResponse{
		Ledger:     sess.Ledger(),
		SyncStatus: string(sess.Status()),
		Warning:    sess.Warning(),
	})
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	s.ledgerJSON(w, r, http.StatusOK)
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{
		"syncStatus": string(sess.Status()),
		"warning":    sess.Warning(),
	})
}

type addExpenseRequest struct {
	Name     string        `json:"name"`
	Category core.Category `json:"category"`
	Budgeted core.Money    `json:"budgeted"`
	DueDay   int           `json:"dueDay"`
	Months   []int         `json:"months"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.AddExpense(core.ExpenseInput{
			Name:     req.Name,
			Category: req.Category,
			Budgeted: req.Budgeted,
			DueDay:   req.DueDay,
			Months:   req.Months,
		})
	})
	s.ledgerJSON(w, r, http.StatusCreated)
}

type editBillRequest struct {
	Name     *string        `json:"name"`
	Category *core.Category `json:"category"`
	Budgeted *core.Money    `json:"budgeted"`
	Actual   *core.Money    `json:"actual"`
	DueDay   *int           `json:"dueDay"`
}

func (s *Server) handleEditBill(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	var req editBillRequest
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.EditBill(month, id, core.BillPatch{
			Name:     req.Name,
			Category: req.Category,
			Budgeted: req.Budgeted,
			Actual:   req.Actual,
			DueDay:   req.DueDay,
		})
	})
	s.ledgerJSON(w, r, http.StatusOK)
}

func (s *Server) handleCycleStatus(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.CycleStatus(month, id)
	})
	s.ledgerJSON(w, r, http.StatusOK)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	scope := r.URL.Query().Get("scope")
	if scope != "" && scope != "month" && scope != "all" {
		errorJSON(w, http.StatusBadRequest, "scope must be 'month' or 'all'")
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		if scope == "all" {
			return l.RemoveFromAllMonths(month, id)
		}
		return l.RemoveFromMonth(month, id)
	})

	s.logger.InfoContext(r.Context(), "Bill removed",
		applog.FieldUserID, userIDFrom(r.Context()),
		applog.FieldMonth, month,
		"scope", scope)
	s.ledgerJSON(w, r, http.StatusOK)
}

type incomeRequest struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.AddIncomeSource(req.Name, req.Amount)
	})
	s.ledgerJSON(w, r, http.StatusCreated)
}

func (s *Server) handleEditIncome(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	var req incomeRequest
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.EditIncomeSource(index, req.Name, req.Amount)
	})
	s.ledgerJSON(w, r, http.StatusOK)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.RemoveIncomeSource(index)
	})
	s.ledgerJSON(w, r, http.StatusOK)
}

func (s *Server) handleSetCreditScore(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Score scoreValue `json:"score"`
	}
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.SetCreditScore(month, int(req.Score))
	})
	s.ledgerJSON(w, r, http.StatusOK)
}

func (s *Server) handleSetSavings(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonth(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Amount core.Money `json:"amount"`
	}
	if err := readJSON(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := s.registry.get(r.Context(), userIDFrom(r.Context()))
	sess.Apply(func(l *core.Ledger) *core.Ledger {
		return l.SetSavings(month, req.Amount)
	})
	s.ledgerJSON(w, r, http.StatusOK)
}
