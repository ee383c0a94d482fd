package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate tarifa de impuesto configurada por empresa (IVA 0/5/19, INC 8...).
type TaxRate struct {
	ID        string
	CompanyID string
	Name      string
	Rate      decimal.Decimal // porcentaje: 19 = 19%
	DIANCode  string          // 01 IVA, 04 INC (tabla 11 del anexo técnico)
	CreatedAt time.Time
	UpdatedAt time.Time
}
