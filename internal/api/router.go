// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"thryv-wallet/internal/api/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultTimeout bounds request handling, including lock waits and conflict
// retries inside the ledger.
const DefaultTimeout = 15 * time.Second

// NewRouter builds the HTTP surface. Caller identity arrives as an explicit
// user ID path parameter on every route that touches money.
func NewRouter(
	wallets *handler.WalletHandler,
	goals *handler.SavingsGoalHandler,
	investments *handler.InvestmentHandler,
	budgets *handler.BudgetHandler,
	funds *handler.EmergencyFundHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", wallets.CreateUser)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", wallets.GetWallet)
				r.Get("/audit", wallets.AuditWallet)
				r.Get("/transactions", wallets.GetTransactions)
				r.Post("/deposit", wallets.Deposit)
				r.Post("/withdraw", wallets.Withdraw)
				r.Post("/transfer", wallets.Transfer)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Post("/", goals.Create)
				r.Get("/", goals.List)
				r.Route("/{goalID}", func(r chi.Router) {
					r.Get("/", goals.Get)
					r.Put("/", goals.Update)
					r.Delete("/", goals.Delete)
					r.Post("/contribute", goals.Contribute)
					r.Post("/withdraw", goals.Withdraw)
				})
			})

			r.Route("/investments", func(r chi.Router) {
				r.Post("/", investments.Create)
				r.Get("/", investments.List)
				r.Route("/{investmentID}", func(r chi.Router) {
					r.Get("/", investments.Get)
					r.Put("/", investments.Update)
					r.Delete("/", investments.Delete)
					r.Post("/fund", investments.Fund)
					r.Post("/withdraw", investments.Withdraw)
				})
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Post("/", budgets.Create)
				r.Get("/", budgets.List)
				r.Route("/{budgetID}", func(r chi.Router) {
					r.Get("/", budgets.Get)
					r.Put("/", budgets.Update)
					r.Delete("/", budgets.Delete)
					r.Post("/pay", budgets.Pay)
				})
			})

			r.Route("/emergency-fund", func(r chi.Router) {
				r.Post("/", funds.Create)
				r.Get("/", funds.Get)
				r.Put("/", funds.UpdateTarget)
				r.Post("/contribute", funds.Contribute)
				r.Post("/withdraw", funds.Withdraw)
			})
		})
	})

	return r
}
