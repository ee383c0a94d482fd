package invoicing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
)

// ── fakes de colaboradores ────────────────────────────────────────────────────

type fakeProducts struct {
	byID  map[string]*entity.Product
	err   error
	calls int
}

func (f *fakeProducts) ProductByID(_ context.Context, id string) (*entity.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

type fakeTaxRates struct {
	byID  map[string]*entity.TaxRate
	err   error
	calls int
}

func (f *fakeTaxRates) TaxRateByID(_ context.Context, id string) (*entity.TaxRate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

type fakeCustomers map[string]string

func (f fakeCustomers) CustomerName(_ context.Context, id string) (string, bool) {
	name, ok := f[id]
	return name, ok
}

var errRed = errors.New("conexión rechazada")

// ── helpers ───────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msg)
}

func product(id string, price int64, tax entity.TaxRateValue) entity.Product {
	return entity.Product{
		ID:      id,
		Name:    "Producto " + id,
		Price:   decimal.NewFromInt(price),
		TaxRate: tax,
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	}
}

func newResolver(products invoicing.ProductFetcher, taxes invoicing.TaxRateLookup, customers invoicing.CustomerDirectory) *invoicing.Resolver {
	return invoicing.NewResolver(products, taxes, customers, zerolog.Nop()).WithIDGenerator(sequentialIDs())
}

func ratePtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
