package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// ProductSearch criterios de búsqueda de productos en persistencia.
type ProductSearch struct {
	Term       string           // coincide con nombre, descripción o SKU (sin mayúsculas)
	CustomerID string           // vacío = todos; "general" = sin dueño
	MinPrice   *decimal.Decimal // inclusivo
	MaxPrice   *decimal.Decimal // inclusivo
	Limit      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// ListByCompany lista en orden de creación; customerID vacío = todos.
	ListByCompany(companyID, customerID string, limit, offset int) ([]*entity.Product, error)
	Search(companyID string, q ProductSearch) ([]*entity.Product, error)
	Delete(id string) error
}
