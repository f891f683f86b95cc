package main

import (
	"context"
	"fmt"

	"github.com/authuser/accounts/internal/core/ports"
	"github.com/authuser/accounts/internal/infrastructure/config"
	mongostore "github.com/authuser/accounts/internal/infrastructure/db/mongo"
	sqlitestore "github.com/authuser/accounts/internal/infrastructure/db/sqlite"
)

// stores bundles the backend selected by STORE_DRIVER.
type stores struct {
	users ports.UserStore
	roles ports.RoleStore
	audit ports.AuditRepository
	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		d, err := sqlitestore.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &stores{
			users: sqlitestore.NewUserStore(d),
			roles: sqlitestore.NewRoleStore(d),
			audit: sqlitestore.NewAuditRepository(d),
			ping:  d.PingContext,
			close: func(context.Context) error { return d.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users: mongostore.NewUserStore(db),
			roles: mongostore.NewRoleStore(db),
			audit: mongostore.NewAuditRepository(db),
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			close: client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
