// Package redisstore persiste el estado de la tienda como un valor JSON en Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

var _ repository.StatePersister = (*Persister)(nil)

// DefaultStateKey clave usada si la configuración no indica otra.
const DefaultStateKey = "almacen:state"

// Persister guarda el snapshot bajo una sola clave.
type Persister struct {
	rdb *redis.Client
	key string
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// New construye el persister sobre un cliente existente.
func New(rdb *redis.Client, key string) *Persister {
	if key == "" {
		key = DefaultStateKey
	}
	return &Persister{rdb: rdb, key: key}
}

// Load lee la clave; si no existe devuelve (nil, nil).
func (p *Persister) Load(ctx context.Context) (*entity.Snapshot, error) {
	data, err := p.rdb.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", p.key, err)
	}
	var snap entity.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decodificar estado: %w", err)
	}
	return &snap, nil
}

// Save sobrescribe la clave sin expiración.
func (p *Persister) Save(ctx context.Context, s entity.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("codificar estado: %w", err)
	}
	if err := p.rdb.Set(ctx, p.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", p.key, err)
	}
	return nil
}
