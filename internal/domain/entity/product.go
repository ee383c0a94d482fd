package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductIDNew marca una línea de factura ingresada a mano (sin producto asociado).
const ProductIDNew = "new"

// Product representa un producto del catálogo de facturación.
// Los campos de impuesto se guardan tal como llegan; solo el normalizador de
// invoicing los convierte en un porcentaje efectivo.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal // precio unitario de venta
	TaxRateID    string          // referencia a TaxRate; tiene prioridad sobre TaxRate/TaxRates
	TaxRate      TaxRateValue
	TaxRates     []InlineTaxRate
	CustomerID   string // vacío = producto general
	CustomerName string
	UnitMeasure  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsGeneral indica si el producto no pertenece a ningún cliente/vendedor.
func (p *Product) IsGeneral() bool { return p.CustomerID == "" }

// IsRealProductID indica si id referencia un producto (no vacío ni "new").
func IsRealProductID(id string) bool {
	return id != "" && id != ProductIDNew
}
