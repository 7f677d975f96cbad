package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/99designs/gqlgen/graphql/playground"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nucleus/starwars-api/graph"
	"github.com/nucleus/starwars-api/internal/config"
	"github.com/nucleus/starwars-api/internal/database"
	"github.com/nucleus/starwars-api/internal/loader"
	"github.com/nucleus/starwars-api/internal/metrics"
	"github.com/nucleus/starwars-api/internal/middleware"
	"github.com/nucleus/starwars-api/internal/starwars"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the GraphQL API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	// Load the dataset before touching the database so a bad seed file
	// fails fast.
	api, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	chars, ships, planets := api.Store().Counts()
	logger.Info("dataset loaded",
		zap.String("source", datasetSource(cfg)),
		zap.Int("characters", chars),
		zap.Int("starships", ships),
		zap.Int("planets", planets),
	)

	// Initialize database connection
	db, err := database.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	m := metrics.New()
	handler, err := newHandler(api, db, m, logger, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("GraphQL playground available", zap.String("url", "http://localhost:"+cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "server error")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down server", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}

func datasetSource(cfg *config.Config) string {
	if cfg.SeedFile == "" {
		return "built-in"
	}
	return cfg.SeedFile
}

func loadDataset(cfg *config.Config) (*starwars.API, error) {
	if cfg.SeedFile == "" {
		return starwars.Default(), nil
	}
	api, err := starwars.LoadDatasetFile(cfg.SeedFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed dataset")
	}
	return api, nil
}

// pinger is the slice of the database client the health check needs.
type pinger interface {
	Ping(ctx context.Context) error
}

type creditsStore interface {
	loader.CreditsSource
	pinger
}

// newHandler wires the routes: the playground and GraphQL on "/", GraphQL on
// "/graphql", plus health, metrics and the schema.
func newHandler(api *starwars.API, db creditsStore, m *metrics.Metrics, logger *zap.Logger, cfg *config.Config) (http.Handler, error) {
	schema, err := graph.NewSchema(
		graph.NewResolver(api, logger),
		graphql.MaxParallelism(cfg.MaxParallelism),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse GraphQL schema")
	}

	gql := loader.Middleware(db, loader.Options{
		Wait:          cfg.LoaderWait,
		BatchCapacity: cfg.LoaderBatchCapacity,
		Observer:      m,
	})(&relay.Handler{Schema: schema})

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", playground.Handler("Star Wars GraphQL", "/graphql"))
	mux.Handle("POST /{$}", gql)
	mux.Handle("POST /graphql", gql)
	mux.Handle("GET /health", healthHandler(db))
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /schema.graphql", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(graph.SDL()))
	})

	return middleware.Chain(mux,
		middleware.RequestID(logger),
		middleware.AccessLog(m),
	), nil
}

type health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

func healthHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := health{Status: "ok", Version: version, Database: "ok"}
		code := http.StatusOK
		if err := db.Ping(r.Context()); err != nil {
			h.Status, h.Database = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(h)
	}
}
