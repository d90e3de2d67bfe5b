package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/autoindex/core/config"
	"github.com/dmitrymomot/autoindex/core/handler"
	"github.com/dmitrymomot/autoindex/core/health"
	"github.com/dmitrymomot/autoindex/core/logger"
	"github.com/dmitrymomot/autoindex/core/metrics"
	"github.com/dmitrymomot/autoindex/core/response"
	"github.com/dmitrymomot/autoindex/core/server"
	"github.com/dmitrymomot/autoindex/core/static"
	"github.com/dmitrymomot/autoindex/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error

	log := newLogger(cfg)

	m := metrics.New(nil)
	mux := newMux(cfg, log, m)

	eg, ctx := errgroup.WithContext(ctx)

	s, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}
	eg.Go(s.Run(ctx, mux))

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}

func newLogger(cfg Config) *slog.Logger {
	preset := logger.WithDevelopment(cfg.AppName)
	switch cfg.AppEnv {
	case "production":
		preset = logger.WithProduction(cfg.AppName)
	case "staging":
		preset = logger.WithStaging(cfg.AppName)
	}
	return logger.New(preset, logger.WithContextExtractors(middleware.RequestIDExtractor))
}

// newMux wires the static handler, health probes and metrics endpoint.
// static.Dir panics on an invalid root or listing format.
func newMux(cfg Config, log *slog.Logger, m *metrics.Metrics) *http.ServeMux {
	type C = *handler.RequestContext

	mount := "/" + strings.Trim(cfg.MountPath, "/")
	stripPrefix := cfg.Static.StripPrefix
	if stripPrefix == "" && mount != "/" {
		stripPrefix = mount
	}
	staticCfg := cfg.Static
	staticCfg.StripPrefix = stripPrefix

	files := static.Dir[C](staticCfg.Root,
		static.WithConfig(staticCfg),
		static.WithLogger(log.With(logger.Component("static"))),
		static.WithRecorder(m),
	)

	files = handler.Chain(files,
		middleware.RequestID[C](),
		middleware.LoggingWithConfig[C](middleware.LoggingConfig{
			Logger:     log,
			Component:  "http.request",
			OnComplete: m.RecordHTTPRequest,
		}),
	)

	mux := http.NewServeMux()
	pattern := mount
	if mount != "/" {
		pattern = mount + "/"
		// Without this the mux would answer /mount with its own redirect.
		mux.Handle(mount, handler.Adapt(files, handler.NewContext, response.ErrorHandler[C]))
	}
	mux.Handle(pattern, handler.Adapt(files, handler.NewContext, response.ErrorHandler[C]))

	mux.Handle("GET /health/live", handler.Adapt(health.Liveness[C], handler.NewContext, response.ErrorHandler[C]))
	mux.Handle("GET /health/ready", handler.Adapt(
		health.Readiness[C](log, health.DirAvailable(staticCfg.Root)),
		handler.NewContext,
		response.ErrorHandler[C],
	))
	mux.Handle("GET "+cfg.MetricsPath, m.Handler())

	return mux
}
