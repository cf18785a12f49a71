// Package app assembles the ledger from configuration: logger, store driver,
// event publisher and service container. Both the HTTP server and the admin
// CLI start from here.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/arap_ledger/internal/adapters/events/kafka"
	"github.com/SscSPs/arap_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/arap_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/arap_ledger/internal/core/ports/services"
	"github.com/SscSPs/arap_ledger/internal/core/services"
	"github.com/SscSPs/arap_ledger/internal/platform/config"
	"github.com/SscSPs/arap_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/arap_ledger/internal/repositories/memory"
	"github.com/SscSPs/arap_ledger/pkg/database"
)

// App holds the wired services and whatever must be released on shutdown.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Services *portssvc.ServiceContainer
	closers  []func()
}

// NewLogger builds a JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// New wires the application. With runMigrations set, pending schema
// migrations are applied before the postgres store is used.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, runMigrations bool) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	repos, err := a.repositories(ctx, runMigrations)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher events.PaymentEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaPaymentTopic)
		a.closers = append(a.closers, func() {
			if err := p.Close(); err != nil {
				logger.Error("Failed to close Kafka publisher", slog.String("error", err.Error()))
			}
		})
		publisher = p
		logger.Info("Payment events enabled",
			slog.String("topic", cfg.KafkaPaymentTopic),
			slog.Any("brokers", cfg.KafkaBrokers))
	}

	container, err := services.NewServiceContainer(cfg, repos, publisher)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services = container
	return a, nil
}

func (a *App) repositories(ctx context.Context, runMigrations bool) (portsrepo.RepositoryProvider, error) {
	switch a.Config.StoreDriver {
	case config.StoreDriverMemory:
		a.Logger.Warn("Using in-memory ledger store; data is lost on exit")
		return memory.NewRepositoryProvider(), nil
	case config.StoreDriverPostgres:
		if runMigrations {
			a.Logger.Info("Running database migrations...")
			if err := database.RunMigrations(a.Config.DatabaseURL, a.Config.MigrationsPath, a.Logger); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		pool, err := database.NewPgxPool(ctx, a.Config.DatabaseURL, a.Config.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(pool) })
		a.Logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), nil
	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown store driver %q", a.Config.StoreDriver)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
