package repository

import "github.com/jhoicas/facturacion-simulada/internal/domain/entity"

// VendorRepository define el puerto de persistencia para Vendor (emisor).
type VendorRepository interface {
	Create(vendor *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	GetByCompanyAndNIT(companyID, nit string) (*entity.Vendor, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error)
	Update(vendor *entity.Vendor) error
	Delete(id string) error
}
