package entity

import "time"

// Certificate certificado de firma simulado (autofirmado) asociado a un vendedor.
type Certificate struct {
	ID          string
	CompanyID   string
	VendorID    string
	Subject     string
	Serial      string // hexadecimal
	Fingerprint string // SHA-256 del certificado en hexadecimal
	NotBefore   time.Time
	NotAfter    time.Time
	P12         []byte // PKCS#12 protegido con contraseña
	CreatedAt   time.Time
}

// IsValidAt indica si el certificado está vigente en t.
func (c *Certificate) IsValidAt(t time.Time) bool {
	return !t.Before(c.NotBefore) && t.Before(c.NotAfter)
}
