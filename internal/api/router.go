package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	apihandler "github.com/maraichr/joingraph/internal/api/handler"
	apimw "github.com/maraichr/joingraph/internal/api/middleware"
	"github.com/maraichr/joingraph/internal/graph"
	"github.com/maraichr/joingraph/internal/store"
	vk "github.com/maraichr/joingraph/internal/store/valkey"
)

// RouterDeps holds optional dependencies for the router. Extraction works
// without any of them; persistence, caching, and graph queries light up when
// their dependency is present.
type RouterDeps struct {
	Store *store.Store
	Cache *vk.ResultCache
	Graph *graph.Client
}

func NewRouter(logger *slog.Logger, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	if deps == nil {
		deps = &RouterDeps{}
	}

	// Health checks
	var pool *pgxpool.Pool
	if deps.Store != nil {
		pool = deps.Store.Pool()
	}
	health := apihandler.NewHealthHandler(pool)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		ex := apihandler.NewExtractHandler(logger, deps.Store, deps.Cache, deps.Graph)
		r.Post("/extract", ex.Extract)

		if deps.Store != nil {
			runs := apihandler.NewRunHandler(logger, deps.Store)
			r.Route("/runs", func(r chi.Router) {
				r.Get("/", runs.List)
				r.Get("/{runID}", runs.Get)
				r.Get("/{runID}/rows", runs.Rows)
			})
		}

		tables := apihandler.NewTableHandler(logger, deps.Graph)
		r.Get("/tables/{name}/joins", tables.Joins)
	})

	return r
}
