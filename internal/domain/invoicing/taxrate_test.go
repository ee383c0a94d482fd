package invoicing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
)

func TestClassifyTax_Prioridad(t *testing.T) {
	iva := "IVA"
	cases := []struct {
		name    string
		product entity.Product
		kind    invoicing.TaxRateKind
	}{
		{"id gana sobre número", entity.Product{TaxRateID: "t1", TaxRate: entity.FlatTaxRate(decimal.NewFromInt(19))}, invoicing.TaxByID},
		{"número", entity.Product{TaxRate: entity.FlatTaxRate(decimal.NewFromInt(5))}, invoicing.TaxFlat},
		{"objeto", entity.Product{TaxRate: entity.ObjectTaxRate(entity.InlineTaxRate{Name: &iva, Rate: ratePtr("19")})}, invoicing.TaxInline},
		{"lista en taxRate", entity.Product{TaxRate: entity.ListTaxRate(entity.InlineTaxRate{Rate: ratePtr("8")})}, invoicing.TaxList},
		{"lista vacía cae a taxRates", entity.Product{TaxRate: entity.ListTaxRate(), TaxRates: []entity.InlineTaxRate{{Rate: ratePtr("5")}}}, invoicing.TaxList},
		{"taxRates", entity.Product{TaxRates: []entity.InlineTaxRate{{Rate: ratePtr("5")}}}, invoicing.TaxList},
		{"sin datos", entity.Product{}, invoicing.TaxNone},
		{"malformado", entity.Product{TaxRate: entity.TaxRateValue{Shape: entity.TaxShapeMalformed}}, invoicing.TaxNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, invoicing.ClassifyTax(&tc.product).Kind)
		})
	}
}

func TestResolve_VariantesInline(t *testing.T) {
	n := invoicing.NewTaxNormalizer(nil, zerolog.Nop())
	ctx := context.Background()

	assertDecimal(t, "19", n.Resolve(ctx, invoicing.TaxRateSpec{Kind: invoicing.TaxFlat, Percentage: dec("19")}))
	assertDecimal(t, "5", n.Resolve(ctx, invoicing.TaxRateSpec{Kind: invoicing.TaxInline, Inline: entity.InlineTaxRate{Rate: ratePtr("5")}}))
	assertDecimal(t, "0", n.Resolve(ctx, invoicing.TaxRateSpec{Kind: invoicing.TaxInline}), "objeto sin rate es 0%")
	assertDecimal(t, "8", n.Resolve(ctx, invoicing.TaxRateSpec{Kind: invoicing.TaxList, List: []entity.InlineTaxRate{{Rate: ratePtr("8")}, {Rate: ratePtr("19")}}}))
	assertDecimal(t, "0", n.Resolve(ctx, invoicing.TaxRateSpec{Kind: invoicing.TaxList, List: []entity.InlineTaxRate{{}}}))
	assertDecimal(t, "0", n.Resolve(ctx, invoicing.TaxRateSpec{Kind: invoicing.TaxNone}))
}

func TestResolve_PorIDConsultaTarifa(t *testing.T) {
	lookup := &fakeTaxRates{byID: map[string]*entity.TaxRate{"iva19": {ID: "iva19", Rate: dec("19")}}}
	n := invoicing.NewTaxNormalizer(lookup, zerolog.Nop())

	p := entity.Product{TaxRateID: "iva19", TaxRate: entity.FlatTaxRate(dec("5"))}
	assertDecimal(t, "19", n.EffectiveRate(context.Background(), &p))
	assert.Equal(t, 1, lookup.calls)
}

// Con taxRateId y taxRate numérico, una consulta fallida da 0% y no el número inline.
func TestResolve_PorIDFallidoNoUsaInline(t *testing.T) {
	lookup := &fakeTaxRates{err: errRed}
	n := invoicing.NewTaxNormalizer(lookup, zerolog.Nop())

	p := entity.Product{TaxRateID: "iva19", TaxRate: entity.FlatTaxRate(dec("19"))}
	assertDecimal(t, "0", n.EffectiveRate(context.Background(), &p))
}

func TestResolve_PorIDNoEncontrado(t *testing.T) {
	n := invoicing.NewTaxNormalizer(&fakeTaxRates{}, zerolog.Nop())
	p := entity.Product{TaxRateID: "inexistente"}
	assertDecimal(t, "0", n.EffectiveRate(context.Background(), &p))
}
