package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/motoquote/motoquote/internal/auth"
	"github.com/motoquote/motoquote/internal/catalog"
	"github.com/motoquote/motoquote/internal/customers"
	"github.com/motoquote/motoquote/internal/observability"
	"github.com/motoquote/motoquote/internal/quotations"
	"github.com/motoquote/motoquote/internal/shared"
	"github.com/motoquote/motoquote/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthMiddleware    *auth.Middleware
	CatalogHandler    *catalog.Handler
	CustomersHandler  *customers.Handler
	QuotationsHandler *quotations.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
	DocumentDir       string
}

// NewRouter constructs the chi.Router with MotoQuote defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	if params.DocumentDir != "" {
		fileServer := http.StripPrefix("/documents/", http.FileServer(http.Dir(params.DocumentDir)))
		r.Get("/documents/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r, params.AuthMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireUser)

			writeGuard := params.AuthMiddleware.RequireRole(shared.RoleManager)
			params.CatalogHandler.MountRoutes(r, catalog.RoleGuard(writeGuard))
			params.CustomersHandler.MountRoutes(r)
			params.QuotationsHandler.MountRoutes(r)

			if params.JobHandler != nil {
				r.Route("/jobs", func(r chi.Router) {
					r.Use(params.AuthMiddleware.RequireRole(shared.RoleAdmin))
					params.JobHandler.MountRoutes(r)
				})
			}
		})
	})

	return r
}
