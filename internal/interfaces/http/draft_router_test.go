package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/application/session"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	apphttp "github.com/jhoicas/facturacion-simulada/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/facturacion-simulada/pkg/jwt"
)

// catalogoFijo fuente en memoria con los productos A (19%) y B ({rate: 5}).
type catalogoFijo struct{}

func (catalogoFijo) ListProducts(context.Context, string) ([]entity.Product, error) {
	five := decimal.NewFromInt(5)
	return []entity.Product{
		{ID: "A", Name: "Producto A", Price: decimal.NewFromInt(100000), TaxRate: entity.FlatTaxRate(decimal.NewFromInt(19))},
		{ID: "B", Name: "Producto B", Price: decimal.NewFromInt(50000), TaxRate: entity.ObjectTaxRate(entity.InlineTaxRate{Rate: &five})},
	}, nil
}

func (catalogoFijo) SearchProducts(context.Context, dto.ProductSearchQuery) ([]entity.Product, error) {
	return nil, nil
}

func (catalogoFijo) ProductByID(context.Context, string) (*entity.Product, error) { return nil, nil }

func (catalogoFijo) ListCustomers(context.Context, string) ([]entity.Customer, error) {
	return []entity.Customer{{ID: "c1", Name: "Cliente Uno"}}, nil
}

func (catalogoFijo) CustomerName(context.Context, string) (string, bool) { return "", false }

func (catalogoFijo) TaxRateByID(context.Context, string) (*entity.TaxRate, error) { return nil, nil }

func (catalogoFijo) CreateInvoice(context.Context, dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return &dto.InvoiceResponse{ID: "inv-1"}, nil
}

type draftEnvelope struct {
	Success bool              `json:"success"`
	Data    dto.DraftResponse `json:"data"`
}

func buildDraftApp() *fiber.App {
	sessions := session.NewManager(zerolog.Nop())
	svc := drafting.NewService(drafting.NewStore(), drafting.NewLoader(nil, time.Minute, zerolog.Nop()),
		drafting.NewDebouncer(time.Millisecond),
		func(string) drafting.CatalogSource { return catalogoFijo{} }, 0, zerolog.Nop())
	sessions.OnTeardown(svc.DropSession)

	app := fiber.New()
	apphttp.DraftRouter(app, apphttp.DraftRouterDeps{Sessions: sessions, Drafts: svc, JWTSecret: testJWTSecret})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeDraft(t *testing.T, resp *http.Response) dto.DraftResponse {
	t.Helper()
	defer resp.Body.Close()
	var env draftEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.True(t, env.Success)
	return env.Data
}

func TestDraftRouter_EscenarioCompletoConTotales(t *testing.T) {
	app := buildDraftApp()
	auth := tokenForRole(t, pkgjwt.RoleFacturador)

	resp := call(t, app, http.MethodPost, "/api/drafts", auth, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	draft := decodeDraft(t, resp)
	require.NotEmpty(t, draft.ID)

	resp = call(t, app, http.MethodPost, "/api/drafts/"+draft.ID+"/items", auth, dto.AddItemRequest{ProductID: "A"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = call(t, app, http.MethodPost, "/api/drafts/"+draft.ID+"/items", auth, dto.AddItemRequest{ProductID: "B"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	draft = decodeDraft(t, resp)

	require.Len(t, draft.Items, 2)
	assert.True(t, decimal.NewFromInt(150000).Equal(draft.Totals.Subtotal))
	assert.True(t, decimal.NewFromInt(21500).Equal(draft.Totals.TaxTotal))
	assert.True(t, decimal.NewFromInt(171500).Equal(draft.Totals.Total))
}

func TestDraftRouter_EnvioSinClienteRetorna422(t *testing.T) {
	app := buildDraftApp()
	auth := tokenForRole(t, pkgjwt.RoleFacturador)
	draft := decodeDraft(t, call(t, app, http.MethodPost, "/api/drafts", auth, nil))

	resp := call(t, app, http.MethodPost, "/api/drafts/"+draft.ID+"/submit", auth, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "MISSING_CUSTOMER", body.Code)
}

func TestDraftRouter_RolConsultaNoEditaBorradores(t *testing.T) {
	app := buildDraftApp()
	resp := call(t, app, http.MethodPost, "/api/drafts", tokenForRole(t, pkgjwt.RoleConsulta), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDraftRouter_SinTokenRetorna401(t *testing.T) {
	app := buildDraftApp()
	resp := call(t, app, http.MethodPost, "/api/drafts", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDraftRouter_CerrarSesionDescartaBorradores(t *testing.T) {
	app := buildDraftApp()
	auth := tokenForRole(t, pkgjwt.RoleFacturador)

	resp := call(t, app, http.MethodPost, "/api/session", auth, dto.SessionRequest{Theme: "dark"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	draft := decodeDraft(t, call(t, app, http.MethodPost, "/api/drafts", auth, nil))

	resp = call(t, app, http.MethodDelete, "/api/session", auth, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/drafts/"+draft.ID, auth, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftRouter_TemaInvalidoRetorna400(t *testing.T) {
	app := buildDraftApp()
	resp := call(t, app, http.MethodPost, "/api/session", tokenForRole(t, pkgjwt.RoleFacturador), dto.SessionRequest{Theme: "sepia"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDraftRouter_FiltroYPaginacion(t *testing.T) {
	app := buildDraftApp()
	auth := tokenForRole(t, pkgjwt.RoleAdmin)
	draft := decodeDraft(t, call(t, app, http.MethodPost, "/api/drafts", auth, nil))

	resp := call(t, app, http.MethodGet, "/api/drafts/"+draft.ID+"/products?term=producto%20b", auth, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data dto.ProductPageResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Len(t, env.Data.Products, 1)
	assert.Equal(t, "B", env.Data.Products[0].ID)
	assert.False(t, env.Data.HasMore)
}
