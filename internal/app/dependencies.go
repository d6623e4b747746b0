package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
	"github.com/vladislavdragonenkov/shop/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения. В зависимости от конфигурации
// собирается либо in-memory набор, либо PostgreSQL.
type Dependencies struct {
	Users    domain.UserRepository
	Products domain.ProductRepository
	Carts    domain.CartRepository
	Orders   domain.OrderRepository
	Checkout domain.CheckoutStore
	Outbox   domain.OutboxRepository

	// Store непустой только для PostgreSQL-драйвера.
	Store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies создаёт зависимости по выбранному драйверу хранилища.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		return newMemoryDependencies(logger), nil
	case StorageDriverPostgres:
		return newPostgresDependencies(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

func newMemoryDependencies(logger *log.Entry) *Dependencies {
	carts := memory.NewCartRepository()
	orders := memory.NewOrderRepository()

	return &Dependencies{
		Users:    memory.NewUserRepository(),
		Products: memory.NewProductRepository(),
		Carts:    carts,
		Orders:   orders,
		Checkout: memory.NewCheckoutStore(carts, orders),
		Outbox:   memory.NewOutboxRepository(),
		Logger:   logger,
	}
}

func newPostgresDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("postgres driver selected but DSN is empty")
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}

	if cfg.PostgresAutoMigrate {
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("postgres migrations applied")
	}

	return &Dependencies{
		Users:    postgres.NewUserRepository(store),
		Products: postgres.NewProductRepository(store),
		Carts:    postgres.NewCartRepository(store),
		Orders:   postgres.NewOrderRepository(store),
		Checkout: postgres.NewCheckoutStore(store),
		Outbox:   postgres.NewOutboxRepository(store),
		Store:    store,
		Logger:   logger,
	}, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d == nil || d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close postgres store")
	}
}
