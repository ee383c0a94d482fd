package entity

import "github.com/shopspring/decimal"

// InvoiceLineItem representa una línea de factura. Subtotal, TaxAmount y Total
// siempre se recalculan desde Quantity, UnitPrice y TaxRate (ver Recompute).
type InvoiceLineItem struct {
	ID           string
	InvoiceID    string // vacío mientras la línea pertenece a un borrador
	ProductID    string // vacío o "new" = línea libre
	Name         string
	Description  string
	Quantity     int
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal // porcentaje efectivo
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	Total        decimal.Decimal
	CustomerID   string
	CustomerName string
}

var hundred = decimal.NewFromInt(100)

// Recompute recalcula los campos derivados de la línea.
func (li *InvoiceLineItem) Recompute() {
	li.Subtotal = decimal.NewFromInt(int64(li.Quantity)).Mul(li.UnitPrice)
	li.TaxAmount = li.Subtotal.Mul(li.TaxRate).Div(hundred)
	li.Total = li.Subtotal.Add(li.TaxAmount)
}
