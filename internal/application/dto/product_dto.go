package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
// taxRate admite número, objeto {name, rate} o lista de objetos.
type CreateProductRequest struct {
	SKU         string                 `json:"sku"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       decimal.Decimal        `json:"price"`
	TaxRateID   string                 `json:"taxRateId,omitempty"`
	TaxRate     entity.TaxRateValue    `json:"taxRate"`
	TaxRates    []entity.InlineTaxRate `json:"taxRates,omitempty"`
	CustomerID  string                 `json:"customerId,omitempty"`
	UnitMeasure string                 `json:"unitMeasure"`
}

// UpdateProductRequest entrada para actualizar un producto. Campos nil no cambian.
type UpdateProductRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Price       *decimal.Decimal       `json:"price"`
	TaxRateID   *string                `json:"taxRateId"`
	TaxRate     *entity.TaxRateValue   `json:"taxRate"`
	TaxRates    []entity.InlineTaxRate `json:"taxRates"`
	CustomerID  *string                `json:"customerId"`
	UnitMeasure *string                `json:"unitMeasure"`
}

// ProductResponse salida de un producto. También es la forma que decodifica el cliente del catálogo.
type ProductResponse struct {
	ID           string                 `json:"id"`
	CompanyID    string                 `json:"companyId,omitempty"`
	SKU          string                 `json:"sku,omitempty"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Price        decimal.Decimal        `json:"price"`
	TaxRateID    string                 `json:"taxRateId,omitempty"`
	TaxRate      entity.TaxRateValue    `json:"taxRate"`
	TaxRates     []entity.InlineTaxRate `json:"taxRates,omitempty"`
	CustomerID   string                 `json:"customerId,omitempty"`
	CustomerName string                 `json:"customerName,omitempty"`
	UnitMeasure  string                 `json:"unitMeasure,omitempty"`
	CreatedAt    *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time             `json:"updatedAt,omitempty"`
}

// NewProductResponse mapea la entidad a su representación JSON.
func NewProductResponse(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		TaxRateID:    p.TaxRateID,
		TaxRate:      p.TaxRate,
		TaxRates:     p.TaxRates,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		UnitMeasure:  p.UnitMeasure,
	}
	if !p.CreatedAt.IsZero() {
		created, updated := p.CreatedAt, p.UpdatedAt
		out.CreatedAt, out.UpdatedAt = &created, &updated
	}
	return out
}

// ToEntity convierte la respuesta de la API en entidad de dominio.
func (r ProductResponse) ToEntity() entity.Product {
	p := entity.Product{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		SKU:          r.SKU,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		TaxRateID:    r.TaxRateID,
		TaxRate:      r.TaxRate,
		TaxRates:     r.TaxRates,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		UnitMeasure:  r.UnitMeasure,
	}
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}
	return p
}

// ProductSearchQuery parámetros de GET /api/products/search.
type ProductSearchQuery struct {
	Term       string `query:"term"`
	CustomerID string `query:"customerId"`
	MinPrice   string `query:"minPrice"`
	MaxPrice   string `query:"maxPrice"`
	Limit      int    `query:"limit"`
}
