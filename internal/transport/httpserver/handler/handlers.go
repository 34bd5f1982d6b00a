package handler

import (
	"net/http"

	expensesdomain "family-ledger-go/internal/domain/expenses"
	"family-ledger-go/internal/session"
	"family-ledger-go/pkg/logger"
)

type Handlers struct {
	Sessions *session.Manager
	Expenses *expensesdomain.Service
	log      logger.Logger
}

func New(sessions *session.Manager, expenses *expensesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Sessions: sessions,
		Expenses: expenses,
		log:      log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
