// Package catalogapi cliente HTTP de la API REST de facturación. Es el transporte
// del servicio de borradores: catálogo, clientes, tarifas y envío de facturas.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
)

// maxBody límite de lectura de respuestas (catálogos grandes incluidos).
const maxBody = 8 << 20

var (
	_ invoicing.ProductFetcher    = (*Client)(nil)
	_ invoicing.TaxRateLookup     = (*Client)(nil)
	_ invoicing.CustomerDirectory = (*Client)(nil)
)

// APIError respuesta no 2xx de la API. Envuelve ErrCatalogFetchFailed (lecturas)
// o ErrSubmissionFailed (escrituras).
type APIError struct {
	Op      string
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("catalogapi: %s: %d %s", e.Op, e.Status, msg)
}

// Unwrap permite errors.Is con el sentinel de dominio.
func (e *APIError) Unwrap() error { return e.kind }

// Client habla con /api usando un token Bearer.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// New baseURL sin /api (ej. http://localhost:8080).
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// WithToken copia del cliente que se autentica con token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// ListProducts GET /api/products?customerId=. customerID vacío = todos.
func (c *Client) ListProducts(ctx context.Context, customerID string) ([]entity.Product, error) {
	q := url.Values{}
	if customerID != "" {
		q.Set("customerId", customerID)
	}
	var out []dto.ProductResponse
	if err := c.getList(ctx, "listar productos", "/api/products", q, &out); err != nil {
		return nil, err
	}
	return toProducts(out), nil
}

// SearchProducts GET /api/products/search.
func (c *Client) SearchProducts(ctx context.Context, in dto.ProductSearchQuery) ([]entity.Product, error) {
	q := url.Values{}
	setIf(q, "term", in.Term)
	setIf(q, "customerId", in.CustomerID)
	setIf(q, "minPrice", in.MinPrice)
	setIf(q, "maxPrice", in.MaxPrice)
	var out []dto.ProductResponse
	if err := c.getList(ctx, "buscar productos", "/api/products/search", q, &out); err != nil {
		return nil, err
	}
	return toProducts(out), nil
}

// ProductByID GET /api/products/:id. (nil, nil) si no existe.
func (c *Client) ProductByID(ctx context.Context, id string) (*entity.Product, error) {
	var out dto.ProductResponse
	found, err := c.getOne(ctx, "consultar producto", "/api/products/"+url.PathEscape(id), &out)
	if err != nil || !found {
		return nil, err
	}
	p := out.ToEntity()
	return &p, nil
}

// ListCustomers GET /api/customers?vendorId=.
func (c *Client) ListCustomers(ctx context.Context, vendorID string) ([]entity.Customer, error) {
	q := url.Values{}
	setIf(q, "vendorId", vendorID)
	var out []dto.CustomerResponse
	if err := c.getList(ctx, "listar clientes", "/api/customers", q, &out); err != nil {
		return nil, err
	}
	customers := make([]entity.Customer, 0, len(out))
	for _, r := range out {
		customers = append(customers, entity.Customer{
			ID: r.ID, CompanyID: r.CompanyID, VendorID: r.VendorID, Name: r.Name,
			TaxID: r.TaxID, IDType: r.IDType, Email: r.Email, Phone: r.Phone, Address: r.Address,
		})
	}
	return customers, nil
}

// CustomerName GET /api/customers/:id. Cualquier fallo da ("", false).
func (c *Client) CustomerName(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}
	var out dto.CustomerResponse
	found, err := c.getOne(ctx, "consultar cliente", "/api/customers/"+url.PathEscape(id), &out)
	if err != nil {
		c.log.Warn().Err(err).Str("customer_id", id).Msg("nombre de cliente no disponible")
		return "", false
	}
	if !found || out.Name == "" {
		return "", false
	}
	return out.Name, true
}

// TaxRateByID GET /api/tax-rates/:id. Acepta {success,data}, la tarifa suelta o
// una lista (manda el primer elemento). (nil, nil) si no existe.
func (c *Client) TaxRateByID(ctx context.Context, id string) (*entity.TaxRate, error) {
	raw, found, err := c.get(ctx, "consultar tarifa", "/api/tax-rates/"+url.PathEscape(id), nil)
	if err != nil || !found {
		return nil, err
	}
	data := unwrapEnvelope(raw)
	if isJSONArray(data) {
		var list []dto.TaxRateResponse
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, decodeErr("consultar tarifa", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		t := list[0].ToEntity()
		return &t, nil
	}
	var one dto.TaxRateResponse
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, decodeErr("consultar tarifa", err)
	}
	t := one.ToEntity()
	return &t, nil
}

// ── Escrituras ────────────────────────────────────────────────────────────────

// CreateInvoice POST /api/invoices. Los errores envuelven ErrSubmissionFailed.
func (c *Client) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	const op = "crear factura"
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("catalogapi: %s: %w", op, err)
	}
	raw, status, err := c.do(ctx, http.MethodPost, "/api/invoices", nil, body)
	if err != nil {
		return nil, fmt.Errorf("catalogapi: %s: %w: %v", op, domain.ErrSubmissionFailed, err)
	}
	if status < 200 || status > 299 {
		return nil, newAPIError(op, status, raw, domain.ErrSubmissionFailed)
	}
	var out dto.InvoiceResponse
	if err := json.Unmarshal(unwrapEnvelope(raw), &out); err != nil {
		return nil, fmt.Errorf("catalogapi: %s: %w: %v", op, domain.ErrSubmissionFailed, err)
	}
	return &out, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) getList(ctx context.Context, op, path string, q url.Values, dst any) error {
	raw, _, err := c.get(ctx, op, path, q)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	data := unwrapEnvelope(raw)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return decodeErr(op, err)
	}
	return nil
}

func (c *Client) getOne(ctx context.Context, op, path string, dst any) (bool, error) {
	raw, found, err := c.get(ctx, op, path, nil)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), dst); err != nil {
		return false, decodeErr(op, err)
	}
	return true, nil
}

// get 404 se reporta como found=false sin error.
func (c *Client) get(ctx context.Context, op, path string, q url.Values) ([]byte, bool, error) {
	raw, status, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, false, fmt.Errorf("catalogapi: %s: %w: %v", op, domain.ErrCatalogFetchFailed, err)
	}
	if status == http.StatusNotFound {
		return nil, false, nil
	}
	if status < 200 || status > 299 {
		return nil, false, newAPIError(op, status, raw, domain.ErrCatalogFetchFailed)
	}
	return raw, true, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body []byte) ([]byte, int, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("catalogapi")
	return raw, resp.StatusCode, nil
}

// ── Decodificación ────────────────────────────────────────────────────────────

// unwrapEnvelope devuelve data si raw es {success, data}; si no, raw tal cual.
func unwrapEnvelope(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Success == nil || env.Data == nil {
		return trimmed
	}
	return env.Data
}

func isJSONArray(data []byte) bool {
	t := bytes.TrimSpace(data)
	return len(t) > 0 && t[0] == '['
}

func newAPIError(op string, status int, raw []byte, kind error) *APIError {
	e := &APIError{Op: op, Status: status, kind: kind}
	var body dto.ErrorResponse
	if json.Unmarshal(raw, &body) == nil {
		e.Code, e.Message = body.Code, body.Message
	}
	return e
}

func decodeErr(op string, err error) error {
	return fmt.Errorf("catalogapi: %s: %w: respuesta inválida: %v", op, domain.ErrCatalogFetchFailed, err)
}

func toProducts(in []dto.ProductResponse) []entity.Product {
	out := make([]entity.Product, 0, len(in))
	for _, r := range in {
		out = append(out, r.ToEntity())
	}
	return out
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// IsAPIError atajo para extraer el *APIError.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
