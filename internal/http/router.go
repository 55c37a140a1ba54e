package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authsvc "github.com/centbook/centbook/internal/auth"
	"github.com/centbook/centbook/internal/http/account"
	"github.com/centbook/centbook/internal/http/auth"
	"github.com/centbook/centbook/internal/http/budget"
	"github.com/centbook/centbook/internal/http/export"
	"github.com/centbook/centbook/internal/http/importcsv"
	"github.com/centbook/centbook/internal/http/matching"
	"github.com/centbook/centbook/internal/http/report"
	"github.com/centbook/centbook/internal/http/transaction"
)

func New(
	authService *authsvc.Service,
	authV1 *auth.Handler,
	accountsV1 *account.Handler,
	transactionsV1 *transaction.Handler,
	budgetsV1 *budget.Handler,
	reportsV1 *report.Handler,
	importV1 *importcsv.Handler,
	matchingV1 *matching.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		// Everything past this point requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(authService.Middleware)

			r.Route("/accounts", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				accountsV1.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				budgetsV1.Routes(r)
			})

			r.Route("/reports", reportsV1.Routes)

			r.Route("/import", importV1.Routes)

			r.Route("/matching", func(r chi.Router) {
				matchingV1.Routes(r)
			})

			r.Route("/export", exportV1.Routes)
		})
	})

	return router
}
