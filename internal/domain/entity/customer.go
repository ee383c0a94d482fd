package entity

import "time"

// Customer representa un cliente (adquiriente) de la empresa.
type Customer struct {
	ID        string
	CompanyID string
	VendorID  string // opcional: vendedor que atiende al cliente
	Name      string
	TaxID     string // NIT o Cédula (Colombia)
	IDType    string // 31 NIT, 13 CC (tabla 3 del anexo técnico)
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
