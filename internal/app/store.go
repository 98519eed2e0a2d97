package app

import (
	"context"
	"log/slog"

	"github.com/odyssey-erp/customer-profile/internal/customers"
	"github.com/odyssey-erp/customer-profile/internal/platform/db"
)

// OpenStore builds the customer repository selected by STORE_DRIVER. The
// returned cleanup func is never nil.
func OpenStore(ctx context.Context, cfg *Config, logger *slog.Logger) (customers.Repository, func(), error) {
	if cfg.StoreDriver != StorePostgres {
		logger.Info("using in-memory customer store", slog.Int("seeded", len(customers.SeedCustomers())))
		return customers.NewMemoryRepository(customers.SeedCustomers()), func() {}, nil
	}
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("using postgres customer store")
	return customers.NewPostgresRepository(pool), pool.Close, nil
}
