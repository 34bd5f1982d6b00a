package handler

import (
	"net/http"
	"time"

	"family-ledger-go/internal/domain/analytics"
	expensesdomain "family-ledger-go/internal/domain/expenses"
	"family-ledger-go/internal/transport/httpserver/middleware"
)

// Dashboard serves the month view: summary, category, daily and member
// breakdowns. Defaults to the current month; ?month=YYYY-MM overrides.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	month, err := parseMonthParam(r.URL.Query().Get("month"), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid month, expected YYYY-MM")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("dashboard: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	active, ok := sess.ActiveFamily()
	if !ok {
		writeJSON(w, http.StatusOK, analytics.BuildDashboard(month, nil, nil))
		return
	}

	from, to := analytics.MonthRange(month)
	current, err := h.monthExpenses(r, active.ID, from, to)
	if err != nil {
		h.log.InternalError("dashboard: load current month failed", err, "user_id", user.ID, "family_id", active.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	prevFrom, prevTo := analytics.PreviousMonthRange(month)
	previous, err := h.monthExpenses(r, active.ID, prevFrom, prevTo)
	if err != nil {
		h.log.InternalError("dashboard: load previous month failed", err, "user_id", user.ID, "family_id", active.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, analytics.BuildDashboard(month, current, previous))
}

func (h *Handlers) monthExpenses(r *http.Request, familyID string, from, to time.Time) ([]expensesdomain.ExpenseWithName, error) {
	return h.Expenses.ListExpenses(r.Context(), familyID, expensesdomain.ListFilter{
		From: &from,
		To:   &to,
	})
}
