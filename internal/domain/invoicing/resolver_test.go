package invoicing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
)

// ── Add ───────────────────────────────────────────────────────────────────────

func TestAdd_CreaLineaConTotales(t *testing.T) {
	catalog := invoicing.NewCatalog([]entity.Product{
		product("A", 100000, entity.FlatTaxRate(dec("19"))),
	})
	r := newResolver(nil, nil, nil)

	items, err := r.Add(context.Background(), "A", nil, catalog, "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "line-1", it.ID)
	assert.Equal(t, "A", it.ProductID)
	assert.Equal(t, 1, it.Quantity)
	assertDecimal(t, "100000", it.Subtotal)
	assertDecimal(t, "19000", it.TaxAmount)
	assertDecimal(t, "119000", it.Total)
}

func TestAdd_ProductoRepetidoEsIdempotente(t *testing.T) {
	catalog := invoicing.NewCatalog([]entity.Product{
		product("A", 1000, entity.FlatTaxRate(dec("19"))),
	})
	r := newResolver(nil, nil, nil)
	ctx := context.Background()

	first, err := r.Add(ctx, "A", nil, catalog, "")
	require.NoError(t, err)
	first, err = r.Update(ctx, first[0].ID, invoicing.LineUpdate{Field: invoicing.FieldQuantity, Value: "4"}, first, catalog)
	require.NoError(t, err)

	second, err := r.Add(ctx, "A", first, catalog, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, second[0].Quantity)
}

func TestAdd_IDInvalido(t *testing.T) {
	r := newResolver(nil, nil, nil)
	for _, id := range []string{"", entity.ProductIDNew} {
		items, err := r.Add(context.Background(), id, nil, invoicing.NewCatalog(nil), "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, items)
	}
}

func TestAdd_NoModificaListaRecibida(t *testing.T) {
	catalog := invoicing.NewCatalog([]entity.Product{
		product("A", 10, entity.TaxRateValue{}),
		product("B", 20, entity.TaxRateValue{}),
	})
	r := newResolver(nil, nil, nil)
	ctx := context.Background()

	base, err := r.Add(ctx, "A", nil, catalog, "")
	require.NoError(t, err)
	snapshot := append([]entity.InvoiceLineItem(nil), base...)

	grown, err := r.Add(ctx, "B", base, catalog, "")
	require.NoError(t, err)
	assert.Len(t, grown, 2)
	assert.Equal(t, snapshot, base)
}

func TestAdd_ConsultaRemotaYFusionaCatalogo(t *testing.T) {
	remote := &fakeProducts{byID: map[string]*entity.Product{
		"R": {ID: "R", Name: "Remoto", Price: dec("500"), TaxRate: entity.FlatTaxRate(dec("5"))},
	}}
	catalog := invoicing.NewCatalog(nil)
	r := newResolver(remote, nil, nil)

	items, err := r.Add(context.Background(), "R", nil, catalog, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assertDecimal(t, "25", items[0].TaxAmount)

	_, ok := catalog.Find("R")
	assert.True(t, ok, "el producto remoto debe quedar en el catálogo")
	assert.Equal(t, 1, remote.calls)
}

func TestAdd_ProductoInexistente(t *testing.T) {
	r := newResolver(&fakeProducts{}, nil, nil)
	items, err := r.Add(context.Background(), "X", nil, invoicing.NewCatalog(nil), "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, items)
}

func TestAdd_ErrorRemotoSeReportaComoNoEncontrado(t *testing.T) {
	r := newResolver(&fakeProducts{err: errRed}, nil, nil)
	_, err := r.Add(context.Background(), "X", nil, invoicing.NewCatalog(nil), "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAdd_ClienteDeLaFacturaYNombre(t *testing.T) {
	catalog := invoicing.NewCatalog([]entity.Product{
		product("A", 10, entity.TaxRateValue{}),
		{ID: "P", Price: dec("10"), CustomerID: "C2", CustomerName: "Dueño"},
	})
	r := newResolver(nil, nil, fakeCustomers{"C1": "Cliente Uno"})
	ctx := context.Background()

	items, err := r.Add(ctx, "A", nil, catalog, "C1")
	require.NoError(t, err)
	assert.Equal(t, "C1", items[0].CustomerID)
	assert.Equal(t, "Cliente Uno", items[0].CustomerName)

	items, err = r.Add(ctx, "P", items, catalog, "C1")
	require.NoError(t, err)
	assert.Equal(t, "C2", items[1].CustomerID)
	assert.Equal(t, "Dueño", items[1].CustomerName)
}

// ── AddBlank ──────────────────────────────────────────────────────────────────

func TestAddBlank_LineaLibre(t *testing.T) {
	r := newResolver(nil, nil, nil)
	items := r.AddBlank(context.Background(), nil, "")
	require.Len(t, items, 1)
	assert.Equal(t, entity.ProductIDNew, items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assertDecimal(t, "0", items[0].Total)

	items = r.AddBlank(context.Background(), items, "")
	assert.Len(t, items, 2, "varias líneas libres pueden coexistir")
}

// ── Update ────────────────────────────────────────────────────────────────────

func setupLine(t *testing.T) (*invoicing.Resolver, *invoicing.Catalog, []entity.InvoiceLineItem) {
	t.Helper()
	catalog := invoicing.NewCatalog([]entity.Product{
		product("A", 100, entity.FlatTaxRate(dec("19"))),
		product("B", 50, entity.ObjectTaxRate(entity.InlineTaxRate{Rate: ratePtr("5")})),
	})
	r := newResolver(nil, nil, fakeCustomers{"C9": "Nueve"})
	items, err := r.Add(context.Background(), "A", nil, catalog, "")
	require.NoError(t, err)
	return r, catalog, items
}

func TestUpdate_CantidadSeRecorta(t *testing.T) {
	r, catalog, items := setupLine(t)
	ctx := context.Background()
	id := items[0].ID

	cases := []struct {
		value string
		want  int
	}{
		{"-3", 1},
		{"0", 1},
		{"2.7", 2},
		{"0.4", 1},
		{"12", 12},
		{"1e19", invoicing.MaxQuantity},
		{"9223372036854775808", invoicing.MaxQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			out, err := r.Update(ctx, id, invoicing.LineUpdate{Field: invoicing.FieldQuantity, Value: tc.value}, items, catalog)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out[0].Quantity)
			assert.False(t, out[0].Subtotal.IsNegative())
		})
	}
}

func TestUpdate_RecalculaTotales(t *testing.T) {
	r, catalog, items := setupLine(t)
	ctx := context.Background()
	id := items[0].ID

	items, err := r.Update(ctx, id, invoicing.LineUpdate{Field: invoicing.FieldQuantity, Value: "3"}, items, catalog)
	require.NoError(t, err)
	items, err = r.Update(ctx, id, invoicing.LineUpdate{Field: invoicing.FieldTaxRate, Value: "5"}, items, catalog)
	require.NoError(t, err)

	assertDecimal(t, "300", items[0].Subtotal)
	assertDecimal(t, "15", items[0].TaxAmount)
	assertDecimal(t, "315", items[0].Total)
}

func TestUpdate_PrecioNegativoEsCero(t *testing.T) {
	r, catalog, items := setupLine(t)
	out, err := r.Update(context.Background(), items[0].ID, invoicing.LineUpdate{Field: invoicing.FieldUnitPrice, Value: "-10"}, items, catalog)
	require.NoError(t, err)
	assertDecimal(t, "0", out[0].UnitPrice)
	assertDecimal(t, "0", out[0].Total)
}

func TestUpdate_ValorNoNumerico(t *testing.T) {
	r, catalog, items := setupLine(t)
	out, err := r.Update(context.Background(), items[0].ID, invoicing.LineUpdate{Field: invoicing.FieldQuantity, Value: "abc"}, items, catalog)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, items, out)
}

func TestUpdate_CambiaProducto(t *testing.T) {
	r, catalog, items := setupLine(t)
	out, err := r.Update(context.Background(), items[0].ID, invoicing.LineUpdate{Field: invoicing.FieldProductID, Value: "B"}, items, catalog)
	require.NoError(t, err)
	assert.Equal(t, "B", out[0].ProductID)
	assertDecimal(t, "50", out[0].UnitPrice)
	assertDecimal(t, "5", out[0].TaxRate)
	assertDecimal(t, "52.5", out[0].Total)
	assert.Equal(t, items[0].ID, out[0].ID)
}

func TestUpdate_ProductoYaPresenteNoDuplica(t *testing.T) {
	r, catalog, items := setupLine(t)
	ctx := context.Background()
	items, err := r.Add(ctx, "B", items, catalog, "")
	require.NoError(t, err)

	out, err := r.Update(ctx, items[0].ID, invoicing.LineUpdate{Field: invoicing.FieldProductID, Value: "B"}, items, catalog)
	require.NoError(t, err)
	assert.Equal(t, items, out)
}

func TestUpdate_Cliente(t *testing.T) {
	r, catalog, items := setupLine(t)
	out, err := r.Update(context.Background(), items[0].ID, invoicing.LineUpdate{Field: invoicing.FieldCustomerID, Value: "C9"}, items, catalog)
	require.NoError(t, err)
	assert.Equal(t, "C9", out[0].CustomerID)
	assert.Equal(t, "Nueve", out[0].CustomerName)
}

func TestUpdate_LineaInexistente(t *testing.T) {
	r, catalog, items := setupLine(t)
	out, err := r.Update(context.Background(), "no-existe", invoicing.LineUpdate{Field: invoicing.FieldName, Value: "x"}, items, catalog)
	require.NoError(t, err)
	assert.Equal(t, items, out)
}

func TestUpdate_CampoDesconocido(t *testing.T) {
	r, catalog, items := setupLine(t)
	_, err := r.Update(context.Background(), items[0].ID, invoicing.LineUpdate{Field: "total", Value: "1"}, items, catalog)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Remove ────────────────────────────────────────────────────────────────────

func TestRemove(t *testing.T) {
	r, catalog, items := setupLine(t)
	items, err := r.Add(context.Background(), "B", items, catalog, "")
	require.NoError(t, err)

	out := invoicing.Remove(items[0].ID, items)
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].ProductID)
	assert.Len(t, items, 2)

	assert.Equal(t, items, invoicing.Remove("no-existe", items))
}

// ── escenario completo ────────────────────────────────────────────────────────

func TestEscenario_DosProductosTotales(t *testing.T) {
	catalog := invoicing.NewCatalog([]entity.Product{
		product("A", 100000, entity.FlatTaxRate(dec("19"))),
		product("B", 50000, entity.ObjectTaxRate(entity.InlineTaxRate{Rate: ratePtr("5")})),
	})
	r := newResolver(nil, nil, nil)
	ctx := context.Background()

	items, err := r.Add(ctx, "A", nil, catalog, "")
	require.NoError(t, err)
	assertDecimal(t, "100000", items[0].Subtotal)
	assertDecimal(t, "19000", items[0].TaxAmount)
	assertDecimal(t, "119000", items[0].Total)

	items, err = r.Add(ctx, "B", items, catalog, "")
	require.NoError(t, err)
	require.Len(t, items, 2)

	totals := invoicing.ComputeTotals(items)
	assertDecimal(t, "150000", totals.Subtotal)
	assertDecimal(t, "21500", totals.TaxTotal)
	assertDecimal(t, "171500", totals.Total)
}
