package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD y búsqueda de productos del catálogo.
type ProductUseCase struct {
	repo         repository.ProductRepository
	taxRateRepo  repository.TaxRateRepository
	customerRepo repository.CustomerRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	taxRateRepo repository.TaxRateRepository,
	customerRepo repository.CustomerRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, taxRateRepo: taxRateRepo, customerRepo: customerRepo}
}

// Create crea un producto. Los campos de impuesto se guardan tal como llegan.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkTaxRate(companyID, in.TaxRateID); err != nil {
		return nil, err
	}
	customerName, err := uc.checkCustomer(companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "94" // unidad (tabla 13.3.6 del anexo técnico)
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		TaxRateID:    in.TaxRateID,
		TaxRate:      in.TaxRate,
		TaxRates:     in.TaxRates,
		CustomerID:   in.CustomerID,
		CustomerName: customerName,
		UnitMeasure:  in.UnitMeasure,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(companyID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// Update actualiza un producto. Campos nil del request no cambian.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.TaxRateID != nil {
		if err := uc.checkTaxRate(companyID, *in.TaxRateID); err != nil {
			return nil, err
		}
		product.TaxRateID = *in.TaxRateID
	}
	if in.TaxRate != nil {
		product.TaxRate = *in.TaxRate
	}
	if in.TaxRates != nil {
		product.TaxRates = in.TaxRates
	}
	if in.CustomerID != nil {
		name, err := uc.checkCustomer(companyID, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		product.CustomerID = *in.CustomerID
		product.CustomerName = name
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// Delete elimina un producto de la empresa.
func (uc *ProductUseCase) Delete(companyID, id string) error {
	if _, err := uc.load(companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

// List lista productos de la empresa. customerID: vacío o "all" = todos,
// "general" = sin dueño, otro valor = solo los de ese cliente.
func (uc *ProductUseCase) List(companyID, customerID string, limit, offset int) ([]dto.ProductResponse, error) {
	var (
		list []*entity.Product
		err  error
	)
	switch customerID {
	case "", invoicing.OwnerAll:
		list, err = uc.repo.ListByCompany(companyID, "", limit, offset)
	case invoicing.OwnerGeneral:
		list, err = uc.repo.Search(companyID, repository.ProductSearch{CustomerID: invoicing.OwnerGeneral, Limit: limit})
	default:
		if _, perr := uuid.Parse(customerID); perr != nil {
			return []dto.ProductResponse{}, nil
		}
		list, err = uc.repo.ListByCompany(companyID, customerID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Search busca por término y rango de precios. Límites vacíos o inválidos no restringen.
func (uc *ProductUseCase) Search(companyID string, q dto.ProductSearchQuery) ([]dto.ProductResponse, error) {
	search := repository.ProductSearch{
		Term:       strings.TrimSpace(q.Term),
		CustomerID: q.CustomerID,
		Limit:      q.Limit,
	}
	if search.CustomerID == invoicing.OwnerAll {
		search.CustomerID = ""
	}
	if search.CustomerID != "" && search.CustomerID != invoicing.OwnerGeneral {
		if _, err := uuid.Parse(search.CustomerID); err != nil {
			return []dto.ProductResponse{}, nil
		}
	}
	search.MinPrice = parsePriceBound(q.MinPrice)
	search.MaxPrice = parsePriceBound(q.MaxPrice)
	list, err := uc.repo.Search(companyID, search)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

func (uc *ProductUseCase) load(companyID, id string) (*entity.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func (uc *ProductUseCase) checkTaxRate(companyID, id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: taxRateId inválido", domain.ErrInvalidInput)
	}
	rate, err := uc.taxRateRepo.GetByID(id)
	if err != nil {
		return err
	}
	if rate == nil || rate.CompanyID != companyID {
		return fmt.Errorf("%w: tarifa %s no existe", domain.ErrInvalidInput, id)
	}
	return nil
}

func (uc *ProductUseCase) checkCustomer(companyID, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: customerId inválido", domain.ErrInvalidInput)
	}
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	if customer == nil || customer.CompanyID != companyID {
		return "", fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, id)
	}
	return customer.Name, nil
}

func parsePriceBound(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewProductResponse(p))
	}
	return out
}
