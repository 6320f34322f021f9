// Package persistence elige el backend de persistencia del estado según la configuración.
package persistence

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/filestore"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Open construye el persister del driver configurado. La función devuelta libera conexiones
// y nunca es nil.
// El driver memory devuelve un persister nil: el estado vive solo en el proceso.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.StatePersister, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("store en memoria: el estado se pierde al reiniciar")
		return nil, noop, nil

	case config.StoreDriverFile, "":
		log.Info().Str("path", cfg.Store.FilePath).Msg("store en archivo JSON")
		return filestore.New(cfg.Store.FilePath), noop, nil

	case config.StoreDriverPostgres:
		if err := postgres.Migrate(ctx, cfg.DB); err != nil {
			return nil, noop, fmt.Errorf("migraciones: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, noop, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.DBName).Msg("store en PostgreSQL")
		return postgres.NewStateRepository(pool), pool.Close, nil

	case config.StoreDriverRedis:
		rdb, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, fmt.Errorf("conexión a Redis: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Str("key", cfg.Redis.StateKey).Msg("store en Redis")
		return redisstore.New(rdb, cfg.Redis.StateKey), func() { _ = rdb.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
}
