package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/skillview/internal/adapters/api"
	"github.com/okian/skillview/internal/adapters/http/web"
	"github.com/okian/skillview/internal/app"
	"github.com/okian/skillview/internal/config"
	"github.com/okian/skillview/internal/session"
	"github.com/okian/skillview/pkg/logger"
	"github.com/okian/skillview/pkg/metrics"
)

// HTTP server timeout constants. Quiz submission waits on the remote
// grader, so writes get a generous bound.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 3 * time.Minute
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if cfg.LogJSON {
		_ = logger.InitWriter(os.Stdout, true)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Runtime metrics on the registry served by /metrics.
	metrics.GetRegistry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := session.Open(cfg.SessionPath)
	if err != nil {
		log.Error(ctx, "failed to open session store", logger.String("path", cfg.SessionPath), logger.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "failed to close session store", logger.Error(err))
		}
	}()

	handler, dash := newHandler(cfg, store, log, metrics.Default())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	dash.Quiz.Wait()

	log.Info(ctx, "server stopped")
}

// newHandler assembles the API client, the controllers and the front-end.
func newHandler(cfg *config.Config, store session.Store, log logger.Logger, m *metrics.Manager) (http.Handler, *app.Dashboard) {
	client := api.New(cfg.APIBaseURL, store,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(log.Named("api")),
		api.WithMetrics(m),
	)

	page := web.NewPage()
	dash := app.NewDashboard(client, store, page.UI(),
		app.WithLogger(log),
		app.WithMetrics(m),
		app.WithMaxFiles(cfg.MaxUploadFiles),
	)

	srv := web.NewServer(dash, page,
		web.WithLogger(log.Named("web")),
		web.WithMetrics(m, cfg.MetricsEnabled),
	)
	return srv.Handler(), dash
}
