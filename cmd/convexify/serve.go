package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osuushi/convexify/internal/cache"
	"github.com/osuushi/convexify/internal/config"
	"github.com/osuushi/convexify/internal/metrics"
	"github.com/osuushi/convexify/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	addr  *string
	redis *string
}

func (f *serveFlags) register(cmd *kingpin.CmdClause) {
	f.addr = cmd.Flag("addr", "Address to listen on.").String()
	f.redis = cmd.Flag("redis", "Redis address for the result cache.").String()
}

func (f *serveFlags) apply(cfg *config.Config) {
	if *f.addr != "" {
		cfg.Server.Addr = *f.addr
	}
	if *f.redis != "" {
		cfg.Cache.Addr = *f.redis
	}
}

// handler builds the HTTP handler and returns a cleanup function for the
// resources it opened.
func (c *cli) handler(cfg *config.Config, logger *slog.Logger) (http.Handler, func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := server.Options{
		Decompose:    cfg.Decompose,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		MaxPoints:    cfg.Server.MaxPoints,
		Logger:       logger,
		Metrics:      metrics.New(reg),
		Gatherer:     reg,
	}
	cleanup := func() {}
	if cfg.Cache.Addr != "" {
		resultCache := cache.New(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB,
			cache.WithPrefix(cfg.Cache.Prefix),
			cache.WithTTL(cfg.Cache.TTL()),
		)
		opts.Cache = resultCache
		cleanup = func() { resultCache.Close() }
		logger.Info("caching results", "redis", cfg.Cache.Addr, "ttl", cfg.Cache.TTL())
	}
	return server.NewHandler(opts), cleanup
}

func (c *cli) runServe(cfg *config.Config, logger *slog.Logger) error {
	c.serve.apply(cfg)
	handler, cleanup := c.handler(cfg, logger)
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Warn("listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Warn("shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			return srv.Close()
		}
	}
	return nil
}
