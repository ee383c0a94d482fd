package drafting

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

// DefaultDebounce espera antes de lanzar una búsqueda remota.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer deja pasar solo la última llamada de cada ventana por clave.
// Las anteriores reciben ErrSearchSuperseded sin tocar la red.
type Debouncer struct {
	delay time.Duration
	mu    sync.Mutex
	seq   map[string]uint64
}

// NewDebouncer delay <= 0 desactiva la espera.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, seq: make(map[string]uint64)}
}

// Do espera la ventana y ejecuta fn si nadie llamó después con la misma clave.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	d.mu.Lock()
	d.seq[key]++
	mine := d.seq[key]
	d.mu.Unlock()

	if d.delay > 0 {
		t := time.NewTimer(d.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	d.mu.Lock()
	latest := d.seq[key]
	d.mu.Unlock()
	if latest != mine {
		metrics.SearchesSuperseded.Inc()
		return domain.ErrSearchSuperseded
	}
	return fn(ctx)
}

// Forget libera el estado de la clave.
func (d *Debouncer) Forget(key string) {
	d.mu.Lock()
	delete(d.seq, key)
	d.mu.Unlock()
}
