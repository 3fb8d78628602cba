package app

import (
	"context"
	"database/sql"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/config"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/db"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	database := &db.DB{DB: sqlDB}
	database.Tune()

	if err := db.RunBootstrapMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	log.Info("database ready")

	// Redis startup is deliberately non-blocking: a store outage makes
	// individual sessions fail, not the whole boot.
	redisClient, err := redis.New(cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}
