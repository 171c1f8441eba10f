package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisobly/hisobly-backend/api/controllers"
	"github.com/hisobly/hisobly-backend/api/middleware"
	"github.com/hisobly/hisobly-backend/pkg/config"
	"github.com/hisobly/hisobly-backend/pkg/db"
	"github.com/hisobly/hisobly-backend/pkg/enums"
	"github.com/hisobly/hisobly-backend/pkg/logger"
	"github.com/hisobly/hisobly-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	salesService controllers.SalesService,
	tenantService controllers.TenantStatusService,
) http.Handler {
	var (
		redisP    redis.Pinger
		idemStore redis.IdempotencyStore
	)
	if redisClient != nil {
		redisP = redisClient
		idemStore = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Post("/sales/quote", controllers.SaleQuote(salesService, logg))
		r.Post("/sales", controllers.SaleCreate(salesService, logg))
		r.Get("/sales", controllers.SalesList(salesService, logg))
		r.Get("/sales/stats", controllers.SalesStats(salesService, logg))
		r.Get("/sales/{saleId}", controllers.SaleDetail(salesService, logg))

		r.Get("/tenants/me/status", controllers.TenantStatus(tenantService, logg))

		r.With(middleware.RequireRole(logg, enums.MemberRoleOwner, enums.MemberRoleManager)).
			Post("/billing/payment-success", controllers.BillingPaymentSuccess(tenantService, logg))
	})

	return r
}
