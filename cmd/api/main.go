package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/config"
	"github.com/kinsust/kin-api/internal/logging"
	"github.com/kinsust/kin-api/internal/mailer"
	"github.com/kinsust/kin-api/internal/obs"
	"github.com/kinsust/kin-api/internal/server"
	"github.com/kinsust/kin-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	if err := run(*cfg, logger); err != nil {
		logger.Error("fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	mgr := store.NewManager(db)
	mgr.MustValidate()
	if err := mgr.Init(ctx); err != nil {
		return err
	}

	metrics := obs.New()

	sessions := auth.NewTokenService([]byte(cfg.LoginSecret), cfg.LoginTTL, "kin-api", logger)
	verify := auth.NewTokenService([]byte(cfg.VerifySecret), cfg.VerifyTTL, "kin-api", logger)
	reset := auth.NewTokenService([]byte(cfg.ResetSecret), cfg.ResetTTL, "kin-api", logger)

	var outbox auth.Mailer
	if smtp, merr := mailer.New(cfg, logger); merr == nil {
		outbox = smtp
	} else {
		logger.Warn("smtp not configured, mail delivery disabled", "error", merr.Error())
		outbox = mailer.NewNoop(logger)
	}

	flow := auth.NewFlow(mgr.Users(), outbox, sessions, verify, reset, cfg.CodeLength, cfg.ClientURL).
		WithLogger(logger).
		WithActivitySink(metrics)

	srv := server.New(cfg, flow, mgr, logger, metrics.Middleware())

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("api listening", "addr", cfg.HTTPAddr)
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api shutdown", "error", err.Error())
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown", "error", err.Error())
	}

	return nil
}
