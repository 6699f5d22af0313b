// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpantry/backend/internal/catalog/barcode"
	"github.com/openpantry/backend/internal/catalog/config"
	"github.com/openpantry/backend/internal/catalog/openfoodfacts"
	"github.com/openpantry/backend/internal/catalog/service"
	"github.com/openpantry/backend/internal/catalog/store"
	"github.com/openpantry/backend/internal/catalog/transport/rest"
	usersvc "github.com/openpantry/backend/internal/user/service"
	userstore "github.com/openpantry/backend/internal/user/store"
	userrest "github.com/openpantry/backend/internal/user/transport/rest"
	"github.com/openpantry/backend/pkg/auth"
	"github.com/openpantry/backend/pkg/server"
	"github.com/openpantry/backend/pkg/web"
)

type Dependencies struct {
	CatalogService service.CatalogService
	UserService    usersvc.UserService
	Verifier       auth.Verifier // nil when the IdP integration is disabled
	Logger         *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, verifier auth.Verifier, cfg *config.Config, logger *slog.Logger) *Dependencies {
	extractor := barcode.NewExtractor()
	lookup := openfoodfacts.NewClient(cfg.Catalog, logger)
	cService := service.NewService(extractor, lookup, store.NewPgStore(dbPool))
	uService := usersvc.NewService(userstore.NewPgStore(dbPool))

	return &Dependencies{
		CatalogService: cService,
		UserService:    uService,
		Verifier:       verifier,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the catalog application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog application. Product and
// profile routes require an authenticated subject; the health check does not.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.CatalogService, deps.Logger)
	userHandler := userrest.NewHandler(deps.UserService, deps.Logger)

	mux.Group(func(r chi.Router) {
		if deps.Verifier != nil {
			r.Use(web.AuthMiddleware(deps.Verifier))
		} else {
			r.Use(web.HeaderAuthMiddleware)
		}
		productHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
	})

	mux.Get("/healthz", productHandler.HealthCheck)
}

// SetupHttpServer creates and configures an HTTP server for the catalog application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
