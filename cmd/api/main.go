package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	pgRepo "github.com/Nike1016/selfoss/internal/infra/adapter/persistence/postgres"
	sqliteRepo "github.com/Nike1016/selfoss/internal/infra/adapter/persistence/sqlite"
	"github.com/Nike1016/selfoss/internal/infra/db"
	"github.com/Nike1016/selfoss/internal/infra/spoutfile"
	"github.com/Nike1016/selfoss/internal/observability/logging"
	"github.com/Nike1016/selfoss/internal/observability/tracing"
	"github.com/Nike1016/selfoss/internal/repository"
	"github.com/Nike1016/selfoss/internal/resilience/circuitbreaker"
	"github.com/Nike1016/selfoss/internal/resilience/retry"
	"github.com/Nike1016/selfoss/pkg/config"

	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"

	hhttp "github.com/Nike1016/selfoss/internal/handler/http"
	"github.com/Nike1016/selfoss/internal/handler/http/middleware"
	"github.com/Nike1016/selfoss/internal/handler/http/requestid"
	hsrc "github.com/Nike1016/selfoss/internal/handler/http/source"
	hspouts "github.com/Nike1016/selfoss/internal/handler/http/spouts"

	_ "github.com/Nike1016/selfoss/docs" // swagger docs
)

// @title           selfoss sources API
// @version         1.0
// @description     Manage the feed sources of a selfoss reader and the spouts that fetch them.

// @license.name  GPL-3.0
// @license.url   https://www.gnu.org/licenses/gpl-3.0.html

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := initLogger()

	cfg, err := config.LoadServer()
	if err != nil {
		logger.Error("invalid server configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := initTracing(ctx, logger, cfg.Version)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("failed to flush traces", slog.Any("error", err))
		}
	}()

	database, repo := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	spouts, err := spoutfile.Open(cfg.SpoutsFile, logger)
	if err != nil {
		logger.Error("failed to load spout definitions",
			slog.String("path", cfg.SpoutsFile),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("spouts loaded",
		slog.String("path", cfg.SpoutsFile),
		slog.Int("count", len(spouts.List())))

	components := setupServer(logger, cfg, database, repo, spouts)
	if err := runServer(ctx, logger, cfg, components); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger initializes the process logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

func initTracing(ctx context.Context, logger *slog.Logger, version string) func(context.Context) error {
	shutdown, err := tracing.Init(ctx, tracing.LoadConfig(version))
	if err != nil {
		logger.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}
	return shutdown
}

// initDatabase connects with retries, runs migrations and builds the
// source repository for the configured dialect.
func initDatabase(ctx context.Context, logger *slog.Logger) (*sql.DB, *circuitbreaker.SourceRepository) {
	dbCfg, err := db.LoadConfig()
	if err != nil {
		logger.Error("invalid database configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		database *sql.DB
		repo     repository.SourceRepository
	)
	err = retry.WithBackoff(ctx, retry.DBConnectConfig(), func() error {
		switch dbCfg.Dialect {
		case db.DialectPostgres:
			xdb, err := db.OpenX(ctx, dbCfg)
			if err != nil {
				return err
			}
			database, repo = xdb.DB, pgRepo.NewSourceRepo(xdb)
		default:
			conn, err := db.Open(ctx, dbCfg)
			if err != nil {
				return err
			}
			database, repo = conn, sqliteRepo.NewSourceRepo(conn)
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.MigrateUp(ctx, database, dbCfg.Dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	return database, circuitbreaker.NewSourceRepository(repo, circuitbreaker.DBConfig())
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler http.Handler
	Spouts  *spoutfile.Registry
	Limiter *hhttp.RateLimiter
}

// setupServer configures the HTTP handler with all routes and middleware.
func setupServer(
	logger *slog.Logger,
	cfg config.Server,
	database *sql.DB,
	repo *circuitbreaker.SourceRepository,
	spouts *spoutfile.Registry,
) *ServerComponents {
	svc := srcUC.Service{Repo: repo, Spouts: spouts}

	var limiter *hhttp.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = hhttp.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		limiter.TrustProxy = cfg.RateLimit.TrustProxy
		logger.Info("rate limiting initialized",
			slog.Float64("rps", cfg.RateLimit.RPS),
			slog.Int("burst", cfg.RateLimit.Burst),
			slog.Bool("trust_proxy", cfg.RateLimit.TrustProxy))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	health := &hhttp.HealthHandler{DB: database, Breaker: repo.Breaker(), Spouts: spouts, Version: cfg.Version}
	mux := setupRoutes(database, health, svc, spouts, limiter)
	return &ServerComponents{
		Handler: applyMiddleware(logger, cfg, mux),
		Spouts:  spouts,
		Limiter: limiter,
	}
}

// setupRoutes registers all HTTP routes.
func setupRoutes(
	database *sql.DB,
	health *hhttp.HealthHandler,
	svc srcUC.Service,
	spouts *spoutfile.Registry,
	limiter *hhttp.RateLimiter,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var writeLimit func(http.Handler) http.Handler
	if limiter != nil {
		writeLimit = limiter.Limit
	}
	hsrc.Register(mux, svc, writeLimit)
	hspouts.Register(mux, spouts)

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: CORS → Request ID → Recovery → Tracing → Logging → Input validation → Timeout → Metrics
func applyMiddleware(logger *slog.Logger, cfg config.Server, handler http.Handler) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if corsConfig.Enabled() {
		logger.Info("CORS enabled",
			slog.Any("allowed_origins", corsConfig.AllowedOrigins),
			slog.Any("allowed_methods", corsConfig.AllowedMethods),
			slog.Int("max_age", corsConfig.MaxAge))
	}

	// Applied innermost first.
	chain := hhttp.MetricsMiddleware(handler)
	chain = hhttp.Timeout(cfg.RequestTimeout)(chain)
	chain = hhttp.InputValidation(cfg.MaxBodyBytes)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(corsConfig, logger)(chain)

	return chain
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
// The spout watcher and rate limit cleanup run alongside the server.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.Server, components *ServerComponents) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return gctx
		},
	}

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return components.Spouts.Watch(gctx)
	})

	if components.Limiter != nil {
		g.Go(func() error {
			components.Limiter.RunCleanup(gctx, cfg.RateLimit.CleanupInterval, cfg.RateLimit.IdleTTL)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
