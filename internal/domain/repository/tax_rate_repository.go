package repository

import "github.com/jhoicas/facturacion-simulada/internal/domain/entity"

// TaxRateRepository define el puerto de persistencia para TaxRate.
type TaxRateRepository interface {
	Create(rate *entity.TaxRate) error
	GetByID(id string) (*entity.TaxRate, error)
	ListByCompany(companyID string) ([]*entity.TaxRate, error)
	Update(rate *entity.TaxRate) error
	Delete(id string) error
}
