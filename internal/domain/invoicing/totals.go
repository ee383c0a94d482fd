package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// Totals totales derivados de las líneas de una factura.
type Totals struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals suma subtotales e impuestos de items. Lista vacía da ceros.
func ComputeTotals(items []entity.InvoiceLineItem) Totals {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
		taxTotal = taxTotal.Add(it.TaxAmount)
	}
	return Totals{
		Subtotal: subtotal,
		TaxTotal: taxTotal,
		Total:    subtotal.Add(taxTotal),
	}
}
