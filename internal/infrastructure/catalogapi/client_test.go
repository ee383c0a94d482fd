package catalogapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/catalogapi"
)

func newServer(t *testing.T, routes map[string]http.HandlerFunc) *catalogapi.Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return catalogapi.New(srv.URL, 0, zerolog.Nop()).WithToken("tok")
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestListProducts_EnvelopeYBearer(t *testing.T) {
	c := newServer(t, map[string]http.HandlerFunc{
		"/api/products": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "c1", r.URL.Query().Get("customerId"))
			writeJSON(w, 200, `{"success":true,"data":[
				{"id":"p1","name":"A","price":100000,"taxRate":19},
				{"id":"p2","name":"B","price":"50000","taxRate":{"name":"IVA 5","rate":5}},
				{"id":"p3","name":"C","price":10,"taxRate":[{"rate":8}]}
			]}`)
		},
	})

	products, err := c.ListProducts(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, entity.TaxShapeNumber, products[0].TaxRate.Shape)
	assert.True(t, products[0].TaxRate.Number.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, entity.TaxShapeObject, products[1].TaxRate.Shape)
	assert.True(t, products[1].Price.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, entity.TaxShapeList, products[2].TaxRate.Shape)
}

func TestListProducts_ListaSuelta(t *testing.T) {
	c := newServer(t, map[string]http.HandlerFunc{
		"/api/products": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[{"id":"p1","name":"A","price":1}]`)
		},
	})
	products, err := c.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestListProducts_ErrorServidor(t *testing.T) {
	c := newServer(t, map[string]http.HandlerFunc{
		"/api/products": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 500, `{"code":"INTERNAL","message":"boom"}`)
		},
	})
	_, err := c.ListProducts(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogFetchFailed)
	apiErr, ok := catalogapi.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestProductByID_NoExiste(t *testing.T) {
	c := newServer(t, map[string]http.HandlerFunc{
		"/api/products/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 404, `{"code":"NOT_FOUND","message":"no"}`)
		},
	})
	p, err := c.ProductByID(context.Background(), "zz")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestTaxRateByID_FormasAceptadas(t *testing.T) {
	bodies := map[string]string{
		"envelope": `{"success":true,"data":{"id":"t1","name":"IVA","rate":19}}`,
		"suelta":   `{"id":"t1","name":"IVA","rate":19}`,
		"lista":    `[{"id":"t1","name":"IVA","rate":19},{"id":"t2","rate":5}]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newServer(t, map[string]http.HandlerFunc{
				"/api/tax-rates/t1": func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, 200, body)
				},
			})
			rate, err := c.TaxRateByID(context.Background(), "t1")
			require.NoError(t, err)
			require.NotNil(t, rate)
			assert.True(t, rate.Rate.Equal(decimal.NewFromInt(19)))
		})
	}
}

func TestCustomerName(t *testing.T) {
	c := newServer(t, map[string]http.HandlerFunc{
		"/api/customers/c1": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"success":true,"data":{"id":"c1","name":"Cliente Uno","taxId":"1"}}`)
		},
		"/api/customers/c2": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 500, `{}`)
		},
	})
	name, ok := c.CustomerName(context.Background(), "c1")
	assert.True(t, ok)
	assert.Equal(t, "Cliente Uno", name)

	_, ok = c.CustomerName(context.Background(), "c2")
	assert.False(t, ok)
	_, ok = c.CustomerName(context.Background(), "")
	assert.False(t, ok)
}

func TestCreateInvoice(t *testing.T) {
	c := newServer(t, map[string]http.HandlerFunc{
		"/api/invoices": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var req dto.CreateInvoiceRequest
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
				writeJSON(w, 400, `{}`)
				return
			}
			if req.InvoiceData.CustomerID == "malo" {
				writeJSON(w, 400, `{"code":"INVALID_INPUT","message":"cliente inválido"}`)
				return
			}
			writeJSON(w, 201, `{"success":true,"data":{"id":"i1","prefix":"SETP","number":"1","total":171500,"items":[]}}`)
		},
	})

	inv, err := c.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		InvoiceData: dto.InvoiceData{CustomerID: "c1", VendorID: "v1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "i1", inv.ID)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(171500)))

	_, err = c.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		InvoiceData: dto.InvoiceData{CustomerID: "malo"},
	})
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	apiErr, ok := catalogapi.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "cliente inválido", apiErr.Message)
}

func TestClient_ServidorCaido(t *testing.T) {
	c := catalogapi.New("http://127.0.0.1:1", 0, zerolog.Nop())
	_, err := c.ListCustomers(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrCatalogFetchFailed)
}
