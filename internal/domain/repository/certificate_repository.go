package repository

import "github.com/jhoicas/facturacion-simulada/internal/domain/entity"

// CertificateRepository define el puerto de persistencia para certificados simulados.
type CertificateRepository interface {
	Create(cert *entity.Certificate) error
	GetByID(id string) (*entity.Certificate, error)
	// ListByCompany no carga el contenido P12.
	ListByCompany(companyID string) ([]*entity.Certificate, error)
	// LatestByVendor certificado más reciente del emisor; nil si no tiene.
	LatestByVendor(vendorID string) (*entity.Certificate, error)
}
