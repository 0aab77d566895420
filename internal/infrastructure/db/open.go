package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/ports"
	"github.com/therapyai/caseload/internal/infrastructure/config"
	"github.com/therapyai/caseload/internal/infrastructure/db/memory"
	"github.com/therapyai/caseload/internal/infrastructure/db/mongo"
	"github.com/therapyai/caseload/internal/infrastructure/db/redis"
	"github.com/therapyai/caseload/internal/infrastructure/db/sqlite"
)

// Open connects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (ports.Store, error) {
	log = log.With().Str("backend", cfg.Backend).Logger()

	switch cfg.Backend {
	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return memory.New(), nil

	case "sqlite":
		s, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("store opened")
		return s, nil

	case "redis":
		s, err := redis.Open(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("store opened")
		return s, nil

	case "mongo":
		s, err := mongo.Open(ctx, mongo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("store opened")
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
