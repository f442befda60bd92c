package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"payregister/internal/auth"
	"payregister/internal/domain/payroll"
	"payregister/internal/platform/config"
	"payregister/internal/platform/metrics"
	payrollhandler "payregister/internal/transport/http/handlers/payroll"
	"payregister/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config config.Config
	Logger logrus.FieldLogger
	Router http.Handler
}

func New(cfg config.Config, logger logrus.FieldLogger, service *payroll.Service, collector *metrics.Collector) *App {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == config.Production))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.MetricsEnabled && collector != nil {
		router.With(guard(cfg, auth.ScopeMetricsRead)...).Handle("/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		payrollHandler := payrollhandler.NewHandler(service, logger)
		payrollHandler.RegisterRoutes(r, guard(cfg, auth.ScopeRegisterRun)...)
	})

	return &App{Config: cfg, Logger: logger, Router: router}
}

// guard requires scope only when a signing secret is configured.
func guard(cfg config.Config, scope string) []func(http.Handler) http.Handler {
	if cfg.JWTSecret == "" {
		return nil
	}
	return []func(http.Handler) http.Handler{middleware.RequireScope(scope)}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.WithField("addr", a.Config.Addr).Info("payregister server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Logger.Info("payregister server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
