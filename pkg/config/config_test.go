package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 60*time.Second, cfg.Catalog.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Catalog.Debounce)
	assert.Equal(t, 5, cfg.Catalog.PageSize)
	assert.Equal(t, "memory", cfg.Catalog.CacheDriver)
	assert.Equal(t, "2", cfg.DIAN.Environment)
}

func TestFromViper_Duraciones(t *testing.T) {
	v := viper.New()
	v.Set("CATALOG_TTL", "120")
	v.Set("SEARCH_DEBOUNCE", "250ms")
	v.Set("CATALOG_TIMEOUT", "no-es-duracion")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.Catalog.TTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Catalog.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout, "valor inválido usa el defecto")
}

func TestFromViper_RedisActivaDriver(t *testing.T) {
	v := viper.New()
	v.Set("REDIS_ADDR", "localhost:6379")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Catalog.CacheDriver)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("CACHE_DRIVER", "memcached")
	_, err := config.FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("CACHE_DRIVER", "redis")
	_, err = config.FromViper(v)
	assert.Error(t, err, "redis sin dirección")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "fact", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/fact?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
