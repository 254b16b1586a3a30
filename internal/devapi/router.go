package devapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRouter configures the chi router with the full REST contract. Read
// endpoints are public; writes and per-wallet views require the wallet
// header.
func NewRouter(store *Store, network string) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestLogging)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandler(network, Version))

		r.Get("/reports/", ListReportsHandler(store))
		r.Get("/reports/{id}/", GetReportHandler(store))
		r.Get("/dashboard-stats/", DashboardStatsHandler(store))
		r.Get("/scammer-check/", ScammerCheckHandler(store))
		r.Get("/merchants/", MerchantsHandler(store))

		r.Group(func(r chi.Router) {
			r.Use(RequireWallet)
			r.Post("/reports/", CreateReportHandler(store))
			r.Post("/reports/{id}/verify/", VerifyReportHandler(store))
			r.Get("/my-reports/", MyReportsHandler(store))
			r.Get("/pending-verifications/", PendingVerificationsHandler(store))
			r.Post("/merchants/", CreateMerchantHandler(store))
			r.Post("/merchants/{id}/generate_api_key/", GenerateAPIKeyHandler(store))
		})
	})

	slog.Info("dev api router initialized", "network", network)
	return r
}
