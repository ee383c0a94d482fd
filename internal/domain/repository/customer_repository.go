package repository

import "github.com/jhoicas/facturacion-simulada/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer (adquiriente).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error)
	// ListByCompany vendorID vacío = todos los clientes de la empresa.
	ListByCompany(companyID, vendorID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}
