// Package cache drivers del caché de snapshots de catálogo: memoria (por defecto) y Redis.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

var _ drafting.SnapshotCache = (*Memory)(nil)

type memEntry struct {
	snap      drafting.Snapshot
	expiresAt time.Time
}

// Memory caché en proceso con expiración por entrada.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemory construye el driver en memoria.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memEntry), now: time.Now}
}

// Get devuelve una copia del snapshot si no ha expirado.
func (m *Memory) Get(_ context.Context, key string) (*drafting.Snapshot, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || (!e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)) {
		metrics.CacheMisses.WithLabelValues(DriverMemory).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(DriverMemory).Inc()
	snap := copySnapshot(e.snap)
	return &snap, true
}

// Set guarda una copia. ttl <= 0 = sin expiración.
func (m *Memory) Set(_ context.Context, key string, snap *drafting.Snapshot, ttl time.Duration) error {
	if snap == nil {
		return nil
	}
	e := memEntry{snap: copySnapshot(*snap)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Delete elimina la entrada.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func copySnapshot(s drafting.Snapshot) drafting.Snapshot {
	out := drafting.Snapshot{LoadedAt: s.LoadedAt}
	out.Products = append(out.Products, s.Products...)
	out.Customers = append(out.Customers, s.Customers...)
	return out
}
