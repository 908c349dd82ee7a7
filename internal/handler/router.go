package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/watshodapay/watshodapay-go/internal/middleware"
	"github.com/watshodapay/watshodapay-go/internal/service"
)

// Services are the application services behind the HTTP surface.
type Services struct {
	Auth        *service.AuthService
	Debts       *service.DebtService
	Payments    *service.PaymentService
	Maintenance *service.MaintenanceService
}

// RouterConfig holds the HTTP-only settings.
type RouterConfig struct {
	ServiceAuthKey string
	SecureCookie   bool
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

// NewRouter wires every route of the API.
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	auth := NewAuthHandler(svc.Auth, cfg.SecureCookie)
	debts := NewDebtHandler(svc.Debts)
	payments := NewPaymentHandler(svc.Payments)
	jobs := NewJobHandler(svc.Maintenance)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.NoCache)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/auth/register", auth.HandleRegister)
			r.Post("/auth/login", auth.HandleLogin)
		})
		r.Post("/auth/logout", auth.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(svc.Auth, cfg.SecureCookie))
			r.Get("/me", auth.HandleMe)

			r.Get("/me/debts", debts.HandleSummary)
			r.Post("/me/debts", debts.HandleCreate)
			r.Get("/me/debts/{id}", debts.HandleGet)
			r.Patch("/me/debts/{id}", debts.HandleUpdate)

			r.Get("/me/payments", payments.HandleList)
			r.Post("/me/payments", payments.HandleCreate)
			r.Get("/me/payments/export", payments.HandleExport)
			r.Get("/me/payments/{id}", payments.HandleGet)
			r.Patch("/me/payments/{id}", payments.HandleUpdate)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.ServiceKey(cfg.ServiceAuthKey))
			r.Post("/jobs/"+JobResetPayed, jobs.HandleResetPayed)
			r.Post("/jobs/"+JobCheckExpiring, jobs.HandleCheckExpiring)
		})
	})

	return r
}
