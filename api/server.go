/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/accounts/*       Account management
  /api/persons/*        External counterparty management
  /api/lendings/*       Lend/borrow records and their workflows
  /api/transactions/*   Transfers and income/expense postings
  /api/journal          Managerial-accounting journal
  /api/balances         Total and per-account balances

SECURITY NOTE:
  No authentication middleware. The deployment front door authenticates
  and forwards the acting user in X-User-ID.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Put("/{id}", h.EditAccount)
			r.Post("/{id}/archive", h.ArchiveAccount)
		})

		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.ListPersons)
			r.Post("/", h.CreatePerson)
			r.Post("/{id}/archive", h.ArchivePerson)
		})

		r.Route("/lendings", func(r chi.Router) {
			r.Get("/", h.ListLendings)
			r.Post("/", h.CreateLending)
			r.Put("/{id}", h.EditLending)
			r.Post("/{id}/archive", h.ArchiveLending)
			r.Post("/{id}/return", h.ReturnLending)
			r.Get("/{id}/histories", h.LendingHistories)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Put("/{id}", h.EditTransaction)
			r.Post("/{id}/archive", h.ArchiveTransaction)
			r.Get("/{id}/histories", h.TransactionHistories)
		})

		r.Get("/journal", h.ListJournal)
		r.Get("/balances", h.Balances)
	})

	return r
}
