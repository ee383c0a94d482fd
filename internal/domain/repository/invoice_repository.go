package repository

import "github.com/jhoicas/facturacion-simulada/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create inserta la cabecera y todas las líneas de invoice.Items.
	Create(invoice *entity.Invoice) error
	// NextNumber reserva el siguiente consecutivo para (empresa, prefijo).
	NextNumber(companyID, prefix string) (int64, error)
	// UpdateStatus actualiza estado, CUFE y QR.
	UpdateStatus(invoice *entity.Invoice) error
	// GetByID devuelve la factura con sus líneas en orden.
	GetByID(id string) (*entity.Invoice, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)
}
