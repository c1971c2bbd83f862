// Package main is the entry point for the taskgate server.
// It wires all dependencies together and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/internal/auth"
	"github.com/teamtodo/taskgate/internal/call"
	"github.com/teamtodo/taskgate/internal/config"
	"github.com/teamtodo/taskgate/internal/observability"
	"github.com/teamtodo/taskgate/internal/registry"
	"github.com/teamtodo/taskgate/internal/transport"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: Parse CLI flags.
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Step 2: Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	// Step 3: Initialize logger and metrics.
	observability.Version = version
	observability.Commit = commit

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	metrics := observability.InitMetrics(prometheus.DefaultRegisterer)

	// Step 4: Build the call registry. Spec or route table defects abort
	// startup rather than surfacing per request.
	reg, err := registry.New()
	if err != nil {
		logger.Error("call registry verification failed", zap.Error(err))
		return 1
	}

	// Step 5: Connect to the store.
	pool, err := buildPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("store connection failed", zap.Error(err))
		return 1
	}
	defer pool.Close()

	// Step 6: Build the executor and dispatcher.
	executor := call.NewPgExecutor(pool, cfg.Database.CallTimeout, logger)
	dispatcher := call.NewDispatcher(reg, executor,
		call.WithErrorDetail(!cfg.Production()),
		call.WithLogger(logger),
		call.WithObserver(metrics),
	)

	// Step 7: Build the auth collaborators.
	jwtSecret := os.Getenv(cfg.Auth.JWTSecretEnv)
	if jwtSecret == "" {
		logger.Error("session secret not set", zap.String("env", cfg.Auth.JWTSecretEnv))
		return 1
	}
	issuer := auth.NewTokenIssuer([]byte(jwtSecret), cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost, os.Getenv(cfg.Auth.PepperEnv))
	totp := auth.NewTotpProvider(cfg.Auth.TotpIssuer, cfg.Auth.TotpSkew)

	authHandler := transport.NewAuthHandler(dispatcher, hasher, issuer, totp, transport.AuthConfig{
		CookieName:   cfg.Auth.CookieName,
		CookieMaxAge: cfg.Auth.CookieMaxAge,
		Secure:       cfg.Production(),
	}, logger)

	// Step 8: Build the HTTP router.
	router := transport.NewRouter(transport.Dependencies{
		Config:      cfg,
		Registry:    reg,
		Dispatcher:  dispatcher,
		AuthHandler: authHandler,
		TokenIssuer: issuer,
		Metrics:     metrics,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Step 9: Start the HTTP server.
	logger.Info("server started",
		zap.Int("port", cfg.Server.Port),
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("environment", cfg.Environment),
		zap.Int("routes", len(reg.Routes())),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return 1
	}

	// Graceful shutdown sequence.
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new connections and drain in-flight requests.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return 0
}

// buildPool connects to PostgreSQL with the DSN named by the configuration.
func buildPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := os.Getenv(cfg.DSNEnv)
	if dsn == "" {
		return nil, fmt.Errorf("store: %s environment variable not set", cfg.DSNEnv)
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return pool, nil
}
