package invoicing

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// TaxRateKind variante de la tarifa de impuesto de un producto.
type TaxRateKind int

const (
	TaxNone   TaxRateKind = iota // sin información: 0%
	TaxFlat                      // porcentaje plano
	TaxByID                      // referencia a una TaxRate que hay que consultar
	TaxInline                    // objeto {name?, rate?}
	TaxList                      // lista de objetos; manda el primero
)

func (k TaxRateKind) String() string {
	switch k {
	case TaxFlat:
		return "flat"
	case TaxByID:
		return "by_id"
	case TaxInline:
		return "inline"
	case TaxList:
		return "list"
	default:
		return "none"
	}
}

// TaxRateSpec tarifa de un producto ya clasificada en una sola variante.
type TaxRateSpec struct {
	Kind       TaxRateKind
	Percentage decimal.Decimal // TaxFlat
	ID         string          // TaxByID
	Inline     entity.InlineTaxRate
	List       []entity.InlineTaxRate
}

// TaxRateLookup consulta una tarifa por ID (colaborador remoto).
type TaxRateLookup interface {
	TaxRateByID(ctx context.Context, id string) (*entity.TaxRate, error)
}

// ClassifyTax convierte los campos crudos del producto en una variante.
// Prioridad: taxRateId > taxRate numérico > taxRate objeto > taxRate lista > taxRates.
func ClassifyTax(p *entity.Product) TaxRateSpec {
	if p == nil {
		return TaxRateSpec{Kind: TaxNone}
	}
	if p.TaxRateID != "" {
		return TaxRateSpec{Kind: TaxByID, ID: p.TaxRateID}
	}
	switch p.TaxRate.Shape {
	case entity.TaxShapeNumber:
		return TaxRateSpec{Kind: TaxFlat, Percentage: p.TaxRate.Number}
	case entity.TaxShapeObject:
		return TaxRateSpec{Kind: TaxInline, Inline: p.TaxRate.Object}
	case entity.TaxShapeList:
		if len(p.TaxRate.List) > 0 {
			return TaxRateSpec{Kind: TaxList, List: p.TaxRate.List}
		}
	}
	if len(p.TaxRates) > 0 {
		return TaxRateSpec{Kind: TaxList, List: p.TaxRates}
	}
	return TaxRateSpec{Kind: TaxNone}
}

// TaxNormalizer resuelve el porcentaje efectivo de una TaxRateSpec.
type TaxNormalizer struct {
	lookup TaxRateLookup
	log    zerolog.Logger
}

// NewTaxNormalizer construye el normalizador. lookup puede ser nil (ByID resuelve a 0).
func NewTaxNormalizer(lookup TaxRateLookup, log zerolog.Logger) *TaxNormalizer {
	return &TaxNormalizer{lookup: lookup, log: log}
}

// Resolve devuelve el porcentaje efectivo. Nunca falla: una consulta fallida da 0%.
func (n *TaxNormalizer) Resolve(ctx context.Context, v TaxRateSpec) decimal.Decimal {
	switch v.Kind {
	case TaxByID:
		return n.resolveByID(ctx, v.ID)
	case TaxFlat:
		return v.Percentage
	case TaxInline:
		return v.Inline.RateOrZero()
	case TaxList:
		if len(v.List) == 0 {
			return decimal.Zero
		}
		return v.List[0].RateOrZero()
	default:
		return decimal.Zero
	}
}

// EffectiveRate atajo: clasifica y resuelve la tarifa del producto.
func (n *TaxNormalizer) EffectiveRate(ctx context.Context, p *entity.Product) decimal.Decimal {
	return n.Resolve(ctx, ClassifyTax(p))
}

func (n *TaxNormalizer) resolveByID(ctx context.Context, id string) decimal.Decimal {
	if n.lookup == nil {
		n.log.Warn().Str("tax_rate_id", id).Msg("sin colaborador de tarifas; se usa 0%")
		return decimal.Zero
	}
	rate, err := n.lookup.TaxRateByID(ctx, id)
	if err != nil {
		n.log.Warn().Err(err).Str("tax_rate_id", id).Msg("consulta de tarifa fallida; se usa 0%")
		return decimal.Zero
	}
	if rate == nil {
		n.log.Warn().Str("tax_rate_id", id).Msg("tarifa no encontrada; se usa 0%")
		return decimal.Zero
	}
	return rate.Rate
}
