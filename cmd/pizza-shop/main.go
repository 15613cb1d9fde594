package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pizza-shop/internal/config"
	"pizza-shop/internal/diagnostics"
	"pizza-shop/internal/env"
	"pizza-shop/internal/infrastructure/repo"
	"pizza-shop/internal/menu"
	"pizza-shop/internal/metrics"
	"pizza-shop/internal/observability"
	"pizza-shop/internal/server"
	"pizza-shop/internal/usecase"
)

func main() {
	env.Load(".env", ".env.local")
	envDefaults := config.EnvDefaults()

	envName := flag.String("env", envDefaults.Env, "deployment environment name")
	port := flag.Int("port", envDefaults.Port, "API listen port")
	diagPort := flag.Int("diag-port", envDefaults.DiagPort, "metrics/health port, 0 disables")
	dbDriver := flag.String("db-driver", envDefaults.DBDriver, "sqlite, postgres or memory")
	dbDSN := flag.String("db-dsn", envDefaults.DBDSN, "database file or connection string")
	logJSON := flag.Bool("log-json", envDefaults.LogJSON, "JSON logs instead of console")
	otelEndpoint := flag.String("otel-endpoint", envDefaults.OtelEndpoint, "OTLP/HTTP host:port for traces and logs")
	traceStdout := flag.Bool("trace-stdout", envDefaults.TraceStdout, "print spans to stdout")
	shutdownTimeout := flag.Duration("shutdown-timeout", envDefaults.ShutdownTimeout, "graceful shutdown limit")

	flag.Parse()

	cfg := config.Config{
		Env:             *envName,
		Port:            *port,
		DiagPort:        *diagPort,
		DBDriver:        *dbDriver,
		DBDSN:           *dbDSN,
		LogJSON:         *logJSON,
		OtelEndpoint:    *otelEndpoint,
		TraceStdout:     *traceStdout,
		ShutdownTimeout: *shutdownTimeout,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "pizza-shop: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := observability.NewLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger, otelShutdown, err := observability.Setup(ctx, cfg, logger)
	if err != nil {
		logger.Error("telemetry setup failed, continuing without it", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	store, err := repo.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()
	logger.Info("store ready", zap.String("driver", cfg.DBDriver))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	orders := &usecase.OrderService{Repo: store, Log: logger, Metrics: m}
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	api := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.New(orders, menu.Default(), logger, m).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api listening", zap.Int("port", cfg.Port))
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	var diag *diagnostics.Server
	if cfg.DiagPort > 0 {
		diag = diagnostics.NewServer(cfg.DiagPort, reg, store)
		g.Go(func() error {
			logger.Info("diagnostics listening", zap.Int("port", cfg.DiagPort))
			if err := diag.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("diagnostics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := api.Shutdown(sctx)
		if diag != nil {
			err = errors.Join(err, diag.Shutdown(sctx))
		}
		return err
	})

	return g.Wait()
}
