package httpserver

import (
	"net/http"
	"time"

	"family-ledger-go/internal/config"
	"family-ledger-go/internal/transport/httpserver/handler"
	authmw "family-ledger-go/internal/transport/httpserver/middleware"
	"family-ledger-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/families", handlers.ListFamilies)
			r.Post("/families", handlers.CreateFamily)
			r.Post("/families/join", handlers.JoinFamily)
			r.Put("/families/active", handlers.SwitchFamily)
			r.Get("/families/active/members", handlers.ListFamilyMembers)
			r.Patch("/families/active/display-name", handlers.UpdateDisplayName)

			r.Get("/expenses", handlers.ListExpenses)
			r.Post("/expenses", handlers.CreateExpense)
			r.Put("/expenses/{id}", handlers.UpdateExpense)
			r.Delete("/expenses/{id}", handlers.DeleteExpense)

			r.Get("/dashboard", handlers.Dashboard)
			r.Get("/categories", handlers.ListCategories)
		})
	})

	return r
}
