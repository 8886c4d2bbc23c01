package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	authservice "universitas/internal/auth/service"
	"universitas/internal/auth/store/account"
	"universitas/internal/auth/store/revocation"
	"universitas/internal/auth/workers/cleanup"
	"universitas/internal/platform/config"
	"universitas/internal/platform/database"
	"universitas/internal/platform/health"
	redisclient "universitas/internal/platform/redis"
	studentsservice "universitas/internal/students/service"
	"universitas/migrations"
)

// accountStore is satisfied by both the in-memory and PostgreSQL stores.
type accountStore interface {
	authservice.AccountStore
	studentsservice.AccountStore
}

// backends groups the storage selected from configuration.
//
//	DATABASE_URL set: PostgreSQL accounts; revocations in PostgreSQL unless Redis is configured.
//	REDIS_URL set:    Redis revocations.
//	neither:          in-memory accounts and revocations.
type backends struct {
	accounts    accountStore
	revocations revocation.TokenRevocationList
	purger      *cleanup.Service
	redis       *redisclient.Client
	checks      map[string]health.CheckFunc

	closers []func() error
}

func openBackends(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, log *slog.Logger) (*backends, error) {
	b := &backends{checks: make(map[string]health.CheckFunc)}

	pool, err := database.New(ctx, database.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if pool != nil {
		b.closers = append(b.closers, pool.Close)
		b.checks["postgres"] = pool.Health
		if err := pool.RegisterMetrics(reg); err != nil {
			b.Close(log)
			return nil, fmt.Errorf("register database metrics: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, pool.DB()); err != nil {
				b.Close(log)
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		b.accounts = account.NewPostgres(pool.DB())
		log.Info("using postgres account store")
	} else {
		b.accounts = account.NewInMemory()
		log.Warn("DATABASE_URL not set, accounts are kept in memory")
	}

	rc, err := redisclient.New(ctx, cfg.Redis, reg)
	if err != nil {
		b.Close(log)
		return nil, err
	}

	switch {
	case rc != nil:
		b.redis = rc
		b.closers = append(b.closers, rc.Close)
		b.checks["redis"] = rc.Health
		b.revocations = revocation.NewRedisTRL(rc.Client)
		log.Info("using redis revocation list")
	case pool != nil:
		trl := revocation.NewPostgresTRL(pool.DB())
		b.revocations = trl
		purger, err := cleanup.New(trl, cleanup.WithLogger(log))
		if err != nil {
			b.Close(log)
			return nil, err
		}
		b.purger = purger
		log.Info("using postgres revocation list")
	default:
		trl := revocation.NewInMemoryTRL()
		b.revocations = trl
		b.closers = append(b.closers, trl.Close)
		log.Info("using in-memory revocation list")
	}

	return b, nil
}

// Close releases backends in reverse order of opening.
func (b *backends) Close(log *slog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Error("failed to close backend", "error", err)
		}
	}
}
