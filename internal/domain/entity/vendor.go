package entity

import "time"

// Vendor representa al emisor de las facturas (oferente) dentro de una empresa.
type Vendor struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string // NIT colombiano con dígito de verificación
	Address   string
	Phone     string
	Email     string
	Prefix    string // prefijo de numeración (ej. SETP)
	CreatedAt time.Time
	UpdatedAt time.Time
}
