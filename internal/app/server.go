// Package app assembles the bot runtime: document store, NATS transport,
// workflow services, command router, and the metrics endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/greenroomhq/greenroom/internal/command"
	"github.com/greenroomhq/greenroom/internal/docstore"
	"github.com/greenroomhq/greenroom/internal/docstore/memory"
	"github.com/greenroomhq/greenroom/internal/docstore/postgres"
	"github.com/greenroomhq/greenroom/internal/docstore/sqlite"
	notifynats "github.com/greenroomhq/greenroom/internal/notify/nats"
	"github.com/greenroomhq/greenroom/internal/platform/metrics"
	"github.com/greenroomhq/greenroom/internal/project/service"
	"github.com/greenroomhq/greenroom/internal/project/storage"
	transportnats "github.com/greenroomhq/greenroom/internal/transport/nats"
)

// Store driver names accepted by Config.StoreDriver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the bot runtime configuration.
type Config struct {
	// StoreDriver selects the document store backend.
	StoreDriver string
	// StorePath is the SQLite database path for the sqlite driver.
	StorePath string
	// PostgresDSN is the connection string for the postgres driver.
	PostgresDSN string

	// NATSURL is the broker address carrying commands and notifications.
	NATSURL string
	// CommandSubject is the subject inbound chat lines arrive on.
	CommandSubject string
	// NotifySubjectPrefix prefixes per-recipient notification subjects.
	NotifySubjectPrefix string

	// CommandPrefix marks chat lines addressed to the bot.
	CommandPrefix string
	// Debug disables the self-action guard for single-account testing.
	Debug bool

	// MetricsAddr serves /metrics and /healthz; empty disables the listener.
	MetricsAddr string

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func openStore(ctx context.Context, cfg Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case "", DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		if cfg.StorePath == "" {
			return nil, errors.New("sqlite driver requires a store path")
		}
		return sqlite.Open(cfg.StorePath)
	case DriverPostgres:
		return postgres.Open(ctx, cfg.PostgresDSN)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Run wires the runtime and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backing, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer backing.Close()

	natsURL := cfg.NATSURL
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	conn, err := nats.Connect(natsURL, nats.Name("greenroom-bot"))
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}
	defer conn.Close()

	m := metrics.New()

	sinkOpts := []notifynats.Option{notifynats.WithMetrics(m)}
	if cfg.NotifySubjectPrefix != "" {
		sinkOpts = append(sinkOpts, notifynats.WithSubjectPrefix(cfg.NotifySubjectPrefix))
	}
	sink := notifynats.New(conn, logger, sinkOpts...)

	subscriber := transportnats.New(conn, cfg.CommandSubject, logger)

	deps := service.Deps{
		Store:            storage.New(backing),
		Sink:             sink,
		Names:            subscriber,
		AllowSelfActions: cfg.Debug,
	}
	router := command.NewRouter(command.Config{
		Prefix:       cfg.CommandPrefix,
		Projects:     service.NewProjectService(deps),
		Applications: service.NewApplicationService(deps),
		Roles:        subscriber,
		Names:        subscriber,
		Sink:         sink,
		Metrics:      m,
		Logger:       logger,
	})

	if err := subscriber.Start(ctx, router); err != nil {
		return fmt.Errorf("subscribe to commands: %w", err)
	}
	defer func() {
		if err := subscriber.Stop(); err != nil {
			logger.Warn("stop subscriber", "error", err)
		}
	}()

	logger.Info("bot running",
		"store", cfg.StoreDriver, "subject", subscriberSubject(cfg), "prefix", cfg.CommandPrefix)

	if cfg.MetricsAddr == "" {
		<-ctx.Done()
		return nil
	}
	return serveMetrics(ctx, cfg.MetricsAddr, m, logger)
}

func subscriberSubject(cfg Config) string {
	if cfg.CommandSubject == "" {
		return transportnats.DefaultSubject
	}
	return cfg.CommandSubject
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown metrics server", "error", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
