package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
	"github.com/jhoicas/facturacion-simulada/pkg/dian"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo       repository.CustomerRepository
	vendorRepo repository.VendorRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, vendorRepo repository.VendorRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, vendorRepo: vendorRepo}
}

// Create crea un nuevo cliente. Un NIT (tipo 31) debe traer dígito de verificación válido.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.IDType == "" {
		in.IDType = dian.IdentificationTypeCC
	}
	if in.IDType != dian.IdentificationTypeCC && in.IDType != dian.IdentificationTypeNIT {
		return nil, fmt.Errorf("%w: tipo de identificación %q", domain.ErrInvalidInput, in.IDType)
	}
	if in.IDType == dian.IdentificationTypeNIT {
		if err := dian.ValidateNITVerificationDigit(in.TaxID); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if in.VendorID != "" {
		if _, err := uuid.Parse(in.VendorID); err != nil {
			return nil, fmt.Errorf("%w: vendorId inválido", domain.ErrInvalidInput)
		}
		vendor, err := uc.vendorRepo.GetByID(in.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil || vendor.CompanyID != companyID {
			return nil, fmt.Errorf("%w: vendedor %s no existe", domain.ErrInvalidInput, in.VendorID)
		}
	}
	existing, _ := uc.repo.GetByCompanyAndTaxID(companyID, in.TaxID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		VendorID:  in.VendorID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		IDType:    in.IDType,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	resp := dto.NewCustomerResponse(customer)
	return &resp, nil
}

// GetByID obtiene un cliente de la empresa.
func (uc *CustomerUseCase) GetByID(companyID, id string) (*dto.CustomerResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	resp := dto.NewCustomerResponse(c)
	return &resp, nil
}

// List lista clientes de la empresa, opcionalmente de un vendedor.
func (uc *CustomerUseCase) List(companyID, vendorID string, limit, offset int) ([]dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if vendorID != "" {
		if _, err := uuid.Parse(vendorID); err != nil {
			return []dto.CustomerResponse{}, nil
		}
	}
	list, err := uc.repo.ListByCompany(companyID, vendorID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCustomerResponse(c))
	}
	return out, nil
}
