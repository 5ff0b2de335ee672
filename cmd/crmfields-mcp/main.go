package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/golovatskygroup/mcp-crmfields/internal/config"
	"github.com/golovatskygroup/mcp-crmfields/internal/highlevel"
	"github.com/golovatskygroup/mcp-crmfields/internal/locations"
	"github.com/golovatskygroup/mcp-crmfields/internal/metrics"
	"github.com/golovatskygroup/mcp-crmfields/internal/server"
	"github.com/golovatskygroup/mcp-crmfields/internal/tools"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	logFormat := flag.String("log-format", "console", "Log format: console or json")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(os.Stderr, *logFormat, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(log.WithContext(context.Background()))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	db, err := locations.Open(cfg.Registry.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := locations.NewStore(ctx, db)
	if err != nil {
		return err
	}
	if n, err := store.Count(ctx); err == nil {
		log.Info().Str("path", cfg.Registry.Path).Int("locations", n).Msg("opened location registry")
	}

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, m, log)
		defer stop()
	}

	client := highlevel.New(highlevel.Config{
		BaseURL:  cfg.API.BaseURL,
		Version:  cfg.API.Version,
		Timeout:  cfg.API.Timeout(),
		Observer: m,
	})

	handler := tools.NewHandler(tools.Options{
		Store: store,
		Resolver: locations.NewResolver(store, locations.Fallback{
			Token:      cfg.Fallback.APIKey,
			LocationID: cfg.Fallback.LocationID,
		}),
		Client:          client,
		Metrics:         m,
		Logger:          log,
		BulkConcurrency: cfg.Bulk.Concurrency,
	})

	srv := server.New(handler, mcp.NewTransport(os.Stdin, os.Stdout), server.Info{
		Name:    "mcp-crmfields",
		Version: version,
	}, log)

	// stdin reads do not observe ctx, so a signal ends the process here
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

func newLogger(w io.Writer, format, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "json":
	case "console", "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "mcp-crmfields").Logger(), nil
}

func serveMetrics(addr string, m *metrics.Metrics, log zerolog.Logger) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics listener failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
