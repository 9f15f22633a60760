// Command api runs the HTTP API server for the position risk profile form.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"

	"github.com/sgsst/profesiograma-go/internal/api"
	"github.com/sgsst/profesiograma-go/internal/config"
	"github.com/sgsst/profesiograma-go/internal/connectors"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/observability"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/querier"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.LogLevel, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.InitTracer(ctx, "api", cfg.OTelEnabled)
	if err != nil {
		logger.Error("otel init failed", "error", err)
	} else {
		defer shutdown(context.Background())
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("metrics init failed", "error", err)
	}

	backend, err := connectors.NewBackend(cfg, logger)
	if err != nil {
		logger.Error("backend init failed", "error", err)
		os.Exit(1)
	}

	var store emo.SignatureStore = emo.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, drafts stay in memory", "addr", cfg.RedisAddr, "error", err)
		} else {
			store = emo.NewRedisStore(rdb, "", 0)
		}
	}
	sessions := emo.NewSessions(emo.NewSharedSuggester(backend, cfg.EMOTimeout), emo.BuilderConfig{
		Debounce: cfg.EMODebounce,
		Timeout:  cfg.EMOTimeout,
		Store:    store,
		Logger:   logger.With("component", "emo"),
	})

	var q querier.WorkflowQuerier
	c, err := client.Dial(client.Options{
		Logger: observability.NewTemporalSlogAdapter(logger),
	})
	if err != nil {
		logger.Warn("temporal unavailable, submission routes disabled", "error", err)
	} else {
		defer c.Close()
		q = querier.New(c)
	}

	srv, err := api.New(ctx, api.Deps{
		Querier:   q,
		Backend:   backend,
		Sessions:  sessions,
		Validator: policy.NewValidator(),
		Metrics:   metrics,
	}, api.Config{
		CORSOrigins: cfg.CORSOrigins,
		OIDC: api.OIDCConfig{
			IssuerURL: cfg.OIDCIssuer,
			Audience:  cfg.OIDCAudience,
			Enabled:   cfg.OIDCEnabled(),
		},
		Tracing: cfg.OTelEnabled,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("api init failed", "error", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting API server", "addr", httpSrv.Addr, "mode", cfg.Mode, "oidc_enabled", cfg.OIDCEnabled())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
