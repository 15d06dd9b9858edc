package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pizza-dashboard/internal/charts"
	"pizza-dashboard/internal/config"
	"pizza-dashboard/internal/middleware"
	"pizza-dashboard/internal/observability"
	"pizza-dashboard/internal/server"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/session"
	"pizza-dashboard/internal/views"
)

const sessionSweepInterval = 5 * time.Minute

// newHandler wires the routes behind the middleware chain.
func newHandler(cfg *config.Config, dataset *services.Dataset, sessions *session.Store, logger *slog.Logger) http.Handler {
	records, _ := dataset.Records()
	sync := views.NewSynchronizer(records, cfg.View, logger)
	srv := server.NewServer(dataset, sync, sessions, charts.PaletteByName(cfg.View.Palette), logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		middleware.Session(sessions, cfg.Session, logger),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
	)

	return middlewareChain(srv)
}

// loadDataset loads the CSV once. A failed load leaves the dataset marked
// unavailable and the server keeps running.
func loadDataset(cfg *config.Config, logger *slog.Logger) *services.Dataset {
	dataset := services.NewDataset(cfg.Data.CacheDir)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	defer cancel()

	start := time.Now()
	if err := dataset.LoadFromCSV(ctx, cfg.Data.CSVFile); err != nil {
		logger.Error("failed to load CSV data, serving without data", "error", err, "file", cfg.Data.CSVFile)
		dataset.MarkUnavailable(err)
		return dataset
	}
	logger.Info("CSV data loaded successfully", "duration", time.Since(start))
	return dataset
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	dataset := loadDataset(cfg, logger)
	sessions := session.NewStore(cfg.Session, cfg.View.SelectionLimit)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dataset, sessions, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepSessions(sweepCtx, sessions, logger)

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("sessions", func(ctx context.Context) error {
		stopSweep()
		logger.Info("shutting down session store", "sessions", sessions.Len())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

func sweepSessions(ctx context.Context, sessions *session.Store, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.CleanExpired(); n > 0 {
				logger.Debug("expired sessions removed", "count", n, "remaining", sessions.Len())
			}
		}
	}
}
