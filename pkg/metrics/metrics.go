// Package metrics instrumentación Prometheus de la API y del servicio de borradores.
//
// Montaje en Fiber:
//
//	app.Use(metrics.Middleware())
//	app.Get("/metrics", metrics.Handler())
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "facturacion"

// ── HTTP ──────────────────────────────────────────────────────────────────────

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP.",
		},
		[]string{"method", "path", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Peticiones HTTP en curso.",
	})
)

// ── Borradores ────────────────────────────────────────────────────────────────

var (
	// LineItemsAdded líneas agregadas a borradores, por origen (catalog|remote|blank).
	LineItemsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drafts",
			Name:      "line_items_added_total",
			Help:      "Líneas agregadas a borradores.",
		},
		[]string{"source"},
	)

	// TaxRateLookupFailures consultas de tarifa por ID que terminaron en 0%.
	TaxRateLookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "drafts",
		Name:      "tax_rate_lookup_failures_total",
		Help:      "Consultas de tarifa fallidas resueltas a 0%.",
	})

	// CatalogLoads cargas de catálogo por resultado (ok|error|stale|cached).
	CatalogLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drafts",
			Name:      "catalog_loads_total",
			Help:      "Cargas de catálogo por resultado.",
		},
		[]string{"result"},
	)

	// SearchesSuperseded búsquedas remotas descartadas por el debounce.
	SearchesSuperseded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "drafts",
		Name:      "searches_superseded_total",
		Help:      "Búsquedas remotas reemplazadas por una más reciente.",
	})

	// Submissions envíos de borradores por resultado (ok|invalid|error).
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drafts",
			Name:      "submissions_total",
			Help:      "Envíos de borradores por resultado.",
		},
		[]string{"result"},
	)

	ActiveDrafts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "drafts",
		Name:      "active",
		Help:      "Borradores en memoria.",
	})
)

// ── Caché y facturación ───────────────────────────────────────────────────────

var (
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Aciertos de caché.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Fallos de caché.",
		},
		[]string{"driver"},
	)

	InvoicesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "invoices_created_total",
		Help:      "Facturas creadas.",
	})

	EmailsQueued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "emails_queued_total",
		Help:      "Correos simulados escritos en el outbox.",
	})
)

// Registry registro Prometheus del proceso.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		LineItemsAdded,
		TaxRateLookupFailures,
		CatalogLoads,
		SearchesSuperseded,
		Submissions,
		ActiveDrafts,
		CacheHits,
		CacheMisses,
		InvoicesCreated,
		EmailsQueued,
	)
}

// Middleware registra duración, total y peticiones en curso. La etiqueta path es la
// plantilla de la ruta (/api/drafts/:id) para no disparar la cardinalidad.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		path := c.Route().Path
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(labels...).Inc()
		return err
	}
}

// Handler expone /metrics.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}
