package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

func TestMiddleware_EtiquetaConPlantillaDeRuta(t *testing.T) {
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/api/drafts/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", metrics.Handler())

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/drafts/:id", "204"))
	resp, err := app.Test(httptest.NewRequest("GET", "/api/drafts/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/drafts/:id", "204"))
	assert.Equal(t, before+1, after)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "facturacion_http_requests_total")
}
