package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rickgao/ah-ledger/internal/api"
	"github.com/rickgao/ah-ledger/internal/config"
	"github.com/rickgao/ah-ledger/internal/database"
	"github.com/rickgao/ah-ledger/internal/ledger"
	"github.com/rickgao/ah-ledger/internal/metrics"
	"github.com/rickgao/ah-ledger/internal/poller"
	"github.com/rickgao/ah-ledger/internal/snapshot"
	"github.com/rickgao/ah-ledger/internal/version"
	"github.com/rickgao/ah-ledger/internal/writer"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file (default: LEDGER_DATA / LEDGER_API_KEY environment)")
	flag.Parse()

	// Load configuration before any network activity
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting ledger",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"data_dir", cfg.Output.DataDir,
		"api_url", cfg.API.BaseURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var sinkPool *pgxpool.Pool
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		sinkPool, err = database.Open(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return 1
		}
		defer sinkPool.Close()
		logger.Info("database connected")
	}

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithLocale(cfg.API.Locale),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithUserAgent(version.UserAgent()),
	)

	// Each pass gets its own run ID, carried by its logs and sink rows.
	pass := poller.PassFunc(func(ctx context.Context) (ledger.Result, error) {
		runID := uuid.New()
		passLogger := logger.With("run_id", runID)

		fetcher := snapshot.NewFetcher(snapshot.Config{
			MaxRetries: cfg.Fetch.MaxRetries,
			RetryDelay: cfg.Fetch.RetryDelay,
		}, apiClient, m, passLogger)

		opts := []ledger.Option{
			ledger.WithObserver(m),
			ledger.WithLogger(passLogger),
		}
		if sinkPool != nil {
			opts = append(opts, ledger.WithSink(writer.NewPostgresSink(sinkPool, runID, passLogger)))
		}

		runner := ledger.NewRunner(
			ledger.Config{GroupDelay: cfg.Run.GroupDelay},
			apiClient,
			fetcher,
			writer.NewFileWriter(cfg.Output.DataDir, passLogger),
			opts...,
		)
		return runner.Run(ctx)
	})

	if cfg.Run.Interval <= 0 {
		res, err := pass.Run(ctx)
		if err != nil {
			logger.Error("ledger pass failed", "error", err)
		}
		return exitCode(res, err)
	}

	return daemon(ctx, cfg, pass, reg, logger)
}

// daemon runs passes on an interval and serves health and metrics until shutdown.
func daemon(ctx context.Context, cfg *config.LedgerConfig, pass poller.Pass, reg *prometheus.Registry, logger *slog.Logger) int {
	p := poller.New(poller.Config{Interval: cfg.Run.Interval}, pass, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           createHandler(cfg.Metrics.Path, p, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		return 1
	}

	logger.Info("ledger running",
		"interval", cfg.Run.Interval,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller did not stop cleanly", "error", err)
	}
	server.Shutdown(shutdownCtx)

	logger.Info("ledger stopped")
	return 0
}

// createHandler serves /health and the metrics endpoint.
func createHandler(metricsPath string, p *poller.Poller, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(metricsPath, metrics.Handler(reg))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		state := p.State()

		health := struct {
			Status  string       `json:"status"`
			Version string       `json:"version"`
			Last    poller.State `json:"last_pass"`
		}{
			Status:  "healthy",
			Version: version.String(),
			Last:    state,
		}

		switch state.Status {
		case "partial":
			health.Status = "degraded"
		case "failed":
			health.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}

// exitCode maps a one-shot pass to the process exit status. An interrupted
// pass that already wrote some groups and its index reports partial success.
func exitCode(res ledger.Result, err error) int {
	if err == nil {
		return res.Status().ExitCode()
	}
	var serErr *writer.SerializationError
	if errors.As(err, &serErr) {
		return ledger.StatusFailed.ExitCode()
	}
	if errors.Is(err, context.Canceled) && res.Succeeded > 0 {
		return ledger.StatusPartial.ExitCode()
	}
	return ledger.StatusFailed.ExitCode()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
