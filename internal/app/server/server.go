package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"wagesheet/internal/domain/session"
	"wagesheet/internal/domain/wages"
	"wagesheet/internal/platform/config"
	"wagesheet/internal/platform/metrics"
	"wagesheet/internal/transport/http/api"
	wageshandler "wagesheet/internal/transport/http/handlers/wages"
	webhandler "wagesheet/internal/transport/http/handlers/web"
	"wagesheet/internal/transport/http/middleware"
)

type App struct {
	Config   config.Config
	Calc     *wages.Calculator
	Sessions *session.Store
	Metrics  *metrics.Collector
	Router   http.Handler

	stopSweeper context.CancelFunc
	sweeperDone chan struct{}
}

// New wires the calculator, session registry and router. The session sweeper runs
// until Close is called or ctx is cancelled.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	policy, err := wages.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	calc, err := wages.NewCalculator(policy)
	if err != nil {
		return nil, fmt.Errorf("build calculator: %w", err)
	}

	app := &App{
		Config:      cfg,
		Calc:        calc,
		Sessions:    session.NewStore(cfg.SessionTTL),
		Metrics:     metrics.New(),
		sweeperDone: make(chan struct{}),
	}
	app.Router = app.routes()

	sweepCtx, cancel := context.WithCancel(ctx)
	app.stopSweeper = cancel
	go func() {
		defer close(app.sweeperDone)
		app.Sessions.RunSweeper(sweepCtx, cfg.SessionSweepInterval)
	}()

	log.WithFields(log.Fields{
		"ceiling": policy.WageCeiling.String(),
		"exempt":  len(policy.EPFExempt),
		"policy":  cfg.PolicyFile,
	}).Info("wage policy loaded")
	return app, nil
}

func (a *App) routes() http.Handler {
	collector := a.Metrics
	if !a.Config.MetricsEnabled {
		collector = nil
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(a.Config.IsProduction()))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes, a.Config.MaxUploadBytes, "/import"))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if a.Config.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			snapshot := a.Metrics.Snapshot()
			snapshot["sessionsActive"] = a.Sessions.Len()
			api.Success(w, snapshot, middleware.GetRequestID(r.Context()))
		})
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(a.Config.SessionSecret, a.Config.SessionTTL, a.Config.IsProduction()))
		r.Use(middleware.RateLimit(a.Config.RateLimitPerMinute, time.Minute))

		webHandler := webhandler.NewHandler(a.Calc, a.Sessions, collector, a.Config.MaxUploadBytes)
		webHandler.RegisterRoutes(r)

		r.Route("/api/v1", func(r chi.Router) {
			wagesHandler := wageshandler.NewHandler(a.Calc, a.Sessions, collector, a.Config.MaxUploadBytes)
			wagesHandler.RegisterRoutes(r)
		})
	})

	return router
}

// Close stops the session sweeper and waits for it to exit.
func (a *App) Close() {
	if a.stopSweeper == nil {
		return
	}
	a.stopSweeper()
	<-a.sweeperDone
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.Addr, err)
	}
	return a.Serve(ctx, listener)
}

func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", listener.Addr().String()).Info("wage sheet server listening")
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
