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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/ericfisherdev/accountpulse/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/accountpulse/internal/adapter/driving/http"
	"github.com/ericfisherdev/accountpulse/internal/application"
	"github.com/ericfisherdev/accountpulse/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	policy := cfg.AttentionPolicy()
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"log_level", cfg.LogLevel,
		"stale_blocker_days", policy.StaleBlockerDays,
		"inactivity_days", policy.InactivityDays,
		"contract_window_days", policy.ContractWindowDays,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	logger.Info("migrations complete", "schema_version", version)

	// 5. Wire adapters.
	accountStore := sqliteadapter.NewAccountRepo(db)
	blockerStore := sqliteadapter.NewBlockerRepo(db)
	pcrStore := sqliteadapter.NewPCRRepo(db)
	activityStore := sqliteadapter.NewActivityRepo(db)
	healthStore := sqliteadapter.NewHealthScoreRepo(db)
	notificationStore := sqliteadapter.NewNotificationRepo(db)

	// 6. Create application services.
	clock := application.SystemClock{}
	newID := application.IDGenerator(application.NewUUID)

	healthSvc := application.NewHealthService(accountStore, pcrStore, healthStore, clock, newID, logger)
	services := httphandler.Services{
		Accounts:      application.NewAccountService(accountStore, healthSvc, clock, newID, logger),
		Health:        healthSvc,
		Attention:     application.NewAttentionService(accountStore, blockerStore, notificationStore, policy, clock, newID, logger),
		Escalation:    application.NewEscalationService(blockerStore, policy, clock, logger),
		Blockers:      application.NewBlockerService(accountStore, blockerStore, activityStore, healthSvc, clock, newID, logger),
		PCRs:          application.NewPCRService(pcrStore, clock, newID),
		Notifications: application.NewNotificationService(notificationStore),
		Ingest:        application.NewIngestService(accountStore, activityStore, healthSvc, clock, newID, logger),
	}

	// 7. Create HTTP handler with middleware.
	apiHandler := httphandler.NewHandler(services, activityStore, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(apiHandler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 8. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 9. Graceful shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
