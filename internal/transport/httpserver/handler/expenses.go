package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"family-ledger-go/internal/catalog"
	expensesdomain "family-ledger-go/internal/domain/expenses"
	"family-ledger-go/internal/session"
	"family-ledger-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

// Amounts travel as whole integers; fractional JSON values fail to
// decode rather than being rounded.
type createExpenseRequest struct {
	Category string  `json:"category"`
	Amount   int64   `json:"amount"`
	Note     *string `json:"note"`
	Date     string  `json:"date"`
}

type updateExpenseRequest struct {
	Category string  `json:"category"`
	Amount   int64   `json:"amount"`
	Note     *string `json:"note"`
	Date     string  `json:"date"`
}

type expenseResponse struct {
	ID           string    `json:"id"`
	FamilyID     string    `json:"family_id"`
	UserID       string    `json:"user_id"`
	Category     string    `json:"category"`
	CategoryName string    `json:"category_name"`
	CategoryIcon string    `json:"category_icon"`
	Amount       int64     `json:"amount"`
	Note         *string   `json:"note"`
	Date         string    `json:"date"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type expenseListResponse struct {
	Items []expenseResponse `json:"items"`
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("expenses.list: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	active, ok := sess.ActiveFamily()
	if !ok {
		writeJSON(w, http.StatusOK, expenseListResponse{Items: []expenseResponse{}})
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}

	filter := expensesdomain.ListFilter{
		From:     from,
		To:       to,
		Category: strings.TrimSpace(query.Get("category")),
		MemberID: strings.TrimSpace(query.Get("member_id")),
	}

	items, err := h.Expenses.ListExpenses(r.Context(), active.ID, filter)
	if err != nil {
		h.log.InternalError("expenses.list: list expenses failed", err, "user_id", user.ID, "family_id", active.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]expenseResponse, 0, len(items))
	for _, expense := range items {
		response = append(response, toExpenseResponse(expense))
	}

	writeJSON(w, http.StatusOK, expenseListResponse{Items: response})
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("expenses.create: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	active, ok := sess.ActiveFamily()
	if !ok {
		h.log.BusinessError("expenses.create: no active family", session.ErrNoActiveFamily, "user_id", user.ID)
		writeError(w, http.StatusPreconditionFailed, "no_active_family", "no family selected")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "category is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		return
	}

	created, err := h.Expenses.CreateExpense(r.Context(), expensesdomain.CreateExpenseInput{
		FamilyID: active.ID,
		UserID:   user.ID,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
		Date:     date,
	})
	if err != nil {
		h.log.InternalError("expenses.create: create expense failed", err, "user_id", user.ID, "family_id", active.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(expensesdomain.ExpenseWithName{
		Expense:     *created,
		DisplayName: active.Membership.DisplayName,
	}))
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	expenseID := strings.TrimSpace(chi.URLParam(r, "id"))
	if expenseID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("expenses.update: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	active, ok := sess.ActiveFamily()
	if !ok {
		h.log.BusinessError("expenses.update: no active family", session.ErrNoActiveFamily, "user_id", user.ID)
		writeError(w, http.StatusPreconditionFailed, "no_active_family", "no family selected")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "category is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		return
	}

	updated, err := h.Expenses.UpdateExpense(r.Context(), expensesdomain.UpdateExpenseInput{
		ID:       expenseID,
		FamilyID: active.ID,
		UserID:   user.ID,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
		Date:     date,
	})
	if err != nil {
		if errors.Is(err, expensesdomain.ErrExpenseNotFound) {
			h.log.BusinessError("expenses.update: expense not found or not owned", err, "user_id", user.ID, "expense_id", expenseID)
			writeError(w, http.StatusNotFound, "expense_not_found", "expense not found")
			return
		}
		h.log.InternalError("expenses.update: update expense failed", err, "user_id", user.ID, "expense_id", expenseID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(expensesdomain.ExpenseWithName{
		Expense:     *updated,
		DisplayName: active.Membership.DisplayName,
	}))
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := strings.TrimSpace(chi.URLParam(r, "id"))
	if expenseID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sess := h.Sessions.ForUser(user.ID)
	if err := sess.EnsureLoaded(r.Context()); err != nil {
		h.log.InternalError("expenses.delete: load memberships failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	active, ok := sess.ActiveFamily()
	if !ok {
		h.log.BusinessError("expenses.delete: no active family", session.ErrNoActiveFamily, "user_id", user.ID)
		writeError(w, http.StatusPreconditionFailed, "no_active_family", "no family selected")
		return
	}

	if err := h.Expenses.DeleteExpense(r.Context(), active.ID, user.ID, expenseID); err != nil {
		if errors.Is(err, expensesdomain.ErrExpenseNotFound) {
			h.log.BusinessError("expenses.delete: expense not found or not owned", err, "user_id", user.ID, "expense_id", expenseID)
			writeError(w, http.StatusNotFound, "expense_not_found", "expense not found")
			return
		}
		h.log.InternalError("expenses.delete: delete expense failed", err, "user_id", user.ID, "expense_id", expenseID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toExpenseResponse(expense expensesdomain.ExpenseWithName) expenseResponse {
	category := catalog.Get(expense.Category)
	return expenseResponse{
		ID:           expense.ID,
		FamilyID:     expense.FamilyID,
		UserID:       expense.UserID,
		Category:     expense.Category,
		CategoryName: category.Name,
		CategoryIcon: category.Icon,
		Amount:       expense.Amount,
		Note:         expense.Note,
		Date:         expense.Date.Format("2006-01-02"),
		DisplayName:  expense.DisplayName,
		CreatedAt:    expense.CreatedAt,
	}
}
