package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
)

func TestRedis_SinServidorEsMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedis(rdb, zerolog.Nop())
	defer r.Close()
	ctx := context.Background()

	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, r.Set(ctx, "k", &drafting.Snapshot{}, time.Minute))
	assert.NoError(t, r.Set(ctx, "k", nil, time.Minute))
}

func TestConnectRedis_Falla(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := ConnectRedis(ctx, "127.0.0.1:1", "", 0, zerolog.Nop())
	assert.Error(t, err)
}
