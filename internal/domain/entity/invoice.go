package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura. El envío a la DIAN es simulado.
const (
	InvoiceStatusDraft           = "DRAFT"            // guardada sin clave técnica (sin CUFE)
	InvoiceStatusSignedSimulated = "SIGNED_SIMULATED" // CUFE y QR calculados
	InvoiceStatusSentSimulated   = "SENT_SIMULATED"   // enviada por correo (simulado)
)

// Invoice representa la cabecera de una factura con sus líneas.
// Subtotal, TaxTotal y Total se derivan de Items.
type Invoice struct {
	ID         string
	CompanyID  string
	VendorID   string
	CustomerID string
	Prefix     string
	Number     string
	Date       time.Time
	DueDate    *time.Time
	Notes      string
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	Total      decimal.Decimal
	Status     string
	CUFE       string // Código Único de Factura Electrónica (SHA-384)
	QRData     string // NumFac|FecFac|ValFac|CodImp|ValImp|Cufe|UrlValidacionDIAN
	Items      []InvoiceLineItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullNumber devuelve prefijo + número sin espacios.
func (i *Invoice) FullNumber() string {
	return i.Prefix + i.Number
}
