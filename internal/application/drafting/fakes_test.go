package drafting_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/application/session"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

var errRemote = errors.New("api caída")

func ptr[T any](v T) *T { return &v }

// fakeSource API en memoria. products por cliente ("" = todos).
// Listar por cliente filtra estrictamente por dueño y agrega los generales.
type fakeSource struct {
	mu        sync.Mutex
	products  map[string][]entity.Product
	remote    map[string]entity.Product
	customers []entity.Customer
	taxRates  map[string]*entity.TaxRate
	listErr   error
	submitErr error
	searchHit []entity.Product
	submitted []dto.CreateInvoiceRequest
	listCalls int
	// block, si no es nil, detiene ListProducts del cliente indicado hasta cerrarse.
	block     map[string]chan struct{}
	started   chan string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		products: map[string][]entity.Product{"": scenarioProducts()},
		remote:   map[string]entity.Product{},
		customers: []entity.Customer{
			{ID: "c1", Name: "Cliente Uno"},
			{ID: "c2", Name: "Cliente Dos"},
		},
		taxRates: map[string]*entity.TaxRate{},
	}
}

func scenarioProducts() []entity.Product {
	return []entity.Product{
		{ID: "A", Name: "Producto A", Price: decimal.NewFromInt(100000), TaxRate: entity.FlatTaxRate(decimal.NewFromInt(19))},
		{ID: "B", Name: "Producto B", Price: decimal.NewFromInt(50000), TaxRate: entity.ObjectTaxRate(entity.InlineTaxRate{Rate: ptr(decimal.NewFromInt(5))})},
	}
}

func (f *fakeSource) ListProducts(ctx context.Context, customerID string) ([]entity.Product, error) {
	f.mu.Lock()
	f.listCalls++
	ch := f.block[customerID]
	started := f.started
	f.mu.Unlock()
	if started != nil {
		started <- customerID
	}
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]entity.Product(nil), f.products[customerID]...)
	if customerID == "" {
		return out, nil
	}
	// con cliente: los suyos más los generales, como GET /api/products?customerId=
	for _, p := range f.products[""] {
		if p.CustomerID == "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSource) SearchProducts(_ context.Context, _ dto.ProductSearchQuery) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.searchHit, nil
}

func (f *fakeSource) ProductByID(_ context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.remote[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeSource) ListCustomers(_ context.Context, _ string) ([]entity.Customer, error) {
	return f.customers, nil
}

func (f *fakeSource) CustomerName(_ context.Context, id string) (string, bool) {
	for _, c := range f.customers {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

func (f *fakeSource) TaxRateByID(_ context.Context, id string) (*entity.TaxRate, error) {
	t, ok := f.taxRates[id]
	if !ok {
		return nil, errRemote
	}
	return t, nil
}

func (f *fakeSource) CreateInvoice(_ context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return &dto.InvoiceResponse{ID: "inv-1", Prefix: "SETP", Number: "1"}, nil
}

type fixture struct {
	src   *fakeSource
	svc   *drafting.Service
	store *drafting.Store
	sess  *session.Session
}

func newFixture(debounce time.Duration) *fixture {
	src := newFakeSource()
	store := drafting.NewStore()
	loader := drafting.NewLoader(nil, time.Minute, zerolog.Nop())
	svc := drafting.NewService(store, loader, drafting.NewDebouncer(debounce),
		func(string) drafting.CatalogSource { return src }, 0, zerolog.Nop()).
		WithClock(func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) })
	return &fixture{
		src:   src,
		svc:   svc,
		store: store,
		sess:  &session.Session{UserID: "u1", CompanyID: "co1", Token: "tok"},
	}
}
