package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solestash/solestash/internal/auth"
	"github.com/solestash/solestash/internal/config"
	"github.com/solestash/solestash/internal/handlers"
	"github.com/solestash/solestash/internal/inventory"
	"github.com/solestash/solestash/internal/middleware"
	"github.com/solestash/solestash/internal/repo"
)

// newRouter wires the full API over one database handle. Kept apart
// from main so the integration tests can mount it on a mock store.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	users := repo.NewUserRepo(database)
	shoes := repo.NewShoeRepo(database)
	audit := repo.NewAuditRepo(database)

	authSvc := auth.New(users, []byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	authHandler := &handlers.AuthHandler{Auth: authSvc}
	shoeHandler := &handlers.ShoeHandler{
		Shoes:    shoes,
		Selector: inventory.NewSelector(shoes),
		Mutator:  inventory.NewMutator(shoes),
		Lister:   inventory.NewLister(shoes),
		Audit:    audit,
	}
	userHandler := &handlers.UserHandler{Users: users, Shoes: shoes, Audit: audit}
	auditHandler := &handlers.AuditHandler{Repo: audit}

	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(hsts))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/healthz", handlers.Healthz)
	r.Get("/readyz", handlers.Readyz(database))
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints: rate limited per IP, bodies capped.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRateLimiter().Middleware)
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	// Owner-scoped endpoints behind the bearer token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT([]byte(cfg.JWTSecret)))
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

		r.Route("/shoes", func(r chi.Router) {
			r.Get("/", shoeHandler.ListShoes)
			r.Post("/", shoeHandler.CreateShoe)
			r.Get("/groups", shoeHandler.ListGroups)
			r.Get("/brands", shoeHandler.ListBrands)
			r.Get("/models", shoeHandler.ListModels)
			r.Get("/variants", shoeHandler.ListVariants)
			r.Get("/resolve", shoeHandler.ResolveVariant)
			r.Get("/{id}", shoeHandler.GetShoe)
			r.Patch("/{id}", shoeHandler.UpdateShoeField)
			r.Delete("/{id}", shoeHandler.DeleteShoe)
		})

		r.Get("/me", userHandler.Me)
		r.Delete("/me", userHandler.DeleteMe)

		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}
