package http

import (
	"errors"
	"net/http"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.Budgets.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handlePutBudget accepts {income, fixedExpenses} as JSON numbers or
// decimal strings (dot or comma), or the same keys form-encoded.
func (s *Server) handlePutBudget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r, 64<<10)
	if err := p.Parse(); err != nil {
		if errors.Is(err, errTooLarge) {
			writeError(w, r, err)
			return
		}
		BadRequestError(CodeBadRequest, err.Error()).Write(w)
		return
	}

	income, err := p.Amount("income")
	if err != nil {
		writeError(w, r, err)
		return
	}
	fixed, err := p.Amount("fixedExpenses")
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := s.deps.Budgets.Save(r.Context(), income, fixed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Budget saved",
		"component", "budget",
		"income", b.Income,
		"fixed_expenses", b.FixedExpenses)
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Budgets.Recommend(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handlePlan answers GET /api/budget/plan?goal=&months=; months is optional.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	goal, err := QueryAmount(q, "goal")
	if err != nil {
		writeError(w, r, err)
		return
	}
	months, err := QueryInt(q, "months", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := s.deps.Budgets.Plan(r.Context(), goal, months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
