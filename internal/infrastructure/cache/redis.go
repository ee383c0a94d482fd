package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

const keyPrefix = "facturacion:catalogo:"

var _ drafting.SnapshotCache = (*Redis)(nil)

// Redis driver sobre go-redis; los snapshots se guardan como JSON.
type Redis struct {
	rdb *redis.Client
	log zerolog.Logger
}

// ConnectRedis abre el cliente y verifica la conexión con PING.
func ConnectRedis(ctx context.Context, addr, password string, db int, log zerolog.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return NewRedis(rdb, log), nil
}

// NewRedis envuelve un cliente existente.
func NewRedis(rdb *redis.Client, log zerolog.Logger) *Redis {
	return &Redis{rdb: rdb, log: log}
}

// Get un error de Redis cuenta como miss; se registra y el caller recarga.
func (r *Redis) Get(ctx context.Context, key string) (*drafting.Snapshot, bool) {
	val, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("cache: lectura redis fallida")
		}
		metrics.CacheMisses.WithLabelValues(DriverRedis).Inc()
		return nil, false
	}
	var snap drafting.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache: snapshot corrupto")
		metrics.CacheMisses.WithLabelValues(DriverRedis).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(DriverRedis).Inc()
	return &snap, true
}

// Set ttl <= 0 = sin expiración.
func (r *Redis) Set(ctx context.Context, key string, snap *drafting.Snapshot, ttl time.Duration) error {
	if snap == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("cache: serializar snapshot: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.rdb.Set(ctx, keyPrefix+key, data, ttl).Err()
}

// Delete elimina la clave.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, keyPrefix+key).Err()
}

// Close cierra el cliente.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
