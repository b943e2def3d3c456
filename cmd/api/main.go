package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/maraichr/joingraph/internal/api"
	"github.com/maraichr/joingraph/internal/config"
	"github.com/maraichr/joingraph/internal/graph"
	"github.com/maraichr/joingraph/internal/store"
	"github.com/maraichr/joingraph/internal/store/postgres"
	vk "github.com/maraichr/joingraph/internal/store/valkey"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	deps := &api.RouterDeps{}

	// Postgres (optional, enables run persistence)
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Warn("postgres connection failed, run persistence disabled", slog.String("error", err.Error()))
	} else {
		deps.Store = store.New(pool)
		defer pool.Close()
		logger.Info("connected to database")
	}

	// Valkey (optional, enables result caching)
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey connection failed, result cache disabled", slog.String("error", err.Error()))
	} else {
		deps.Cache = vk.NewResultCache(vkClient, cfg.Cache.TTL)
		defer vkClient.Close()
		logger.Info("connected to valkey")
	}

	// Neo4j (optional, enables the join graph endpoints)
	graphClient, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Warn("neo4j connection failed, join graph disabled", slog.String("error", err.Error()))
	} else {
		if err := graphClient.EnsureIndexes(ctx); err != nil {
			logger.Warn("neo4j ensure indexes failed", slog.String("error", err.Error()))
		}
		deps.Graph = graphClient
		defer graphClient.Close(ctx)
		logger.Info("connected to neo4j")
	}

	router := api.NewRouter(logger, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
