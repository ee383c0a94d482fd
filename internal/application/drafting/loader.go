package drafting

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

// DefaultCatalogTTL antigüedad máxima de un snapshot antes de recargarlo.
const DefaultCatalogTTL = 60 * time.Second

// Scope alcance de un catálogo: empresa y, opcionalmente, cliente.
type Scope struct {
	CompanyID  string
	CustomerID string
}

// Key clave de caché del alcance.
func (s Scope) Key() string {
	customer := s.CustomerID
	if customer == "" {
		customer = "all"
	}
	return s.CompanyID + ":" + customer
}

// Loader carga snapshots de catálogo. Cargas idénticas concurrentes se colapsan
// en una sola; productos y clientes se piden en paralelo.
type Loader struct {
	cache SnapshotCache
	ttl   time.Duration
	group singleflight.Group
	log   zerolog.Logger
	now   func() time.Time
}

// NewLoader cache puede ser nil (sin caché).
func NewLoader(cache SnapshotCache, ttl time.Duration, log zerolog.Logger) *Loader {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &Loader{cache: cache, ttl: ttl, log: log, now: time.Now}
}

// Load devuelve el snapshot del alcance. force ignora el caché.
// Las cargas concurrentes del mismo alcance comparten una sola petición hecha con
// el src del primer llamador: el catálogo es por empresa, no por usuario. Esa
// petición no hereda la cancelación de nadie; cada llamador deja de esperar
// cuando se cancela su propio ctx.
func (l *Loader) Load(ctx context.Context, src CatalogSource, scope Scope, force bool) (*Snapshot, error) {
	key := scope.Key()
	if !force && l.cache != nil {
		if snap, ok := l.cache.Get(ctx, key); ok && l.fresh(snap) {
			metrics.CatalogLoads.WithLabelValues("cached").Inc()
			return snap, nil
		}
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		return l.fetch(fetchCtx, src, scope)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.log.Debug().Str("scope", key).Msg("carga de catálogo compartida")
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate descarta el snapshot cacheado del alcance.
func (l *Loader) Invalidate(ctx context.Context, scope Scope) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, scope.Key()); err != nil {
		l.log.Warn().Err(err).Str("scope", scope.Key()).Msg("no se pudo invalidar el catálogo")
	}
}

func (l *Loader) fetch(ctx context.Context, src CatalogSource, scope Scope) (*Snapshot, error) {
	var (
		products  []entity.Product
		customers []entity.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = src.ListProducts(gctx, scope.CustomerID)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = src.ListCustomers(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return nil, err
	}

	snap := &Snapshot{Products: products, Customers: customers, LoadedAt: l.now()}
	if l.cache != nil {
		if err := l.cache.Set(ctx, scope.Key(), snap, l.ttl); err != nil {
			l.log.Warn().Err(err).Str("scope", scope.Key()).Msg("no se pudo cachear el catálogo")
		}
	}
	metrics.CatalogLoads.WithLabelValues("ok").Inc()
	l.log.Debug().
		Str("scope", scope.Key()).
		Int("products", len(products)).
		Int("customers", len(customers)).
		Msg("catálogo cargado")
	return snap, nil
}

func (l *Loader) fresh(snap *Snapshot) bool {
	return l.now().Sub(snap.LoadedAt) < l.ttl
}
