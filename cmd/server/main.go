package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/station-hours/api/handlers"
	"github.com/jusunglee/station-hours/internal/config"
	"github.com/jusunglee/station-hours/internal/metrics"
	"github.com/jusunglee/station-hours/internal/tables"
	"github.com/jusunglee/station-hours/pkg/station"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	var (
		port           = flag.String("port", cfg.Port, "Server port")
		tablesFile     = flag.String("tables-file", cfg.TablesFile, "Schedule tables YAML file (built-in tables when empty)")
		reloadSchedule = flag.String("reload", cfg.ReloadSchedule, "Cron schedule for reloading the tables file")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	var mcol *metrics.Collector
	var tableMetrics tables.Metrics
	var queryMetrics handlers.Metrics
	if cfg.MetricsEnabled {
		mcol = metrics.NewCollector()
		tableMetrics = mcol
		queryMetrics = mcol
	}

	stationConfig := station.DefaultConfig()
	stationConfig.TablesFile = *tablesFile
	stationConfig.ReloadSchedule = *reloadSchedule

	client, err := station.NewLocal(stationConfig, logger, tableMetrics)
	if err != nil {
		logger.Error("failed to create station client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	// Create HTTP server
	r := mux.NewRouter()
	h := handlers.NewHandler(client, queryMetrics, logger)
	h.RegisterRoutes(r)
	if mcol != nil {
		r.Handle("/metrics", mcol.Handler()).Methods("GET")
	}

	// Add middleware
	r.Use(loggingMiddleware(logger))
	r.Use(corsMiddleware)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "port", *port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		client.Close()
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"uri", r.RequestURI,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
