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

// DefaultInvoicePrefix prefijo de numeración del set de pruebas DIAN.
const DefaultInvoicePrefix = "SETP"

// VendorUseCase casos de uso para emisores.
type VendorUseCase struct {
	repo repository.VendorRepository
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(repo repository.VendorRepository) *VendorUseCase {
	return &VendorUseCase{repo: repo}
}

// Create registra un emisor. El NIT debe traer dígito de verificación válido.
func (uc *VendorUseCase) Create(companyID string, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.NIT = strings.TrimSpace(in.NIT)
	if in.Name == "" || in.NIT == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := dian.ValidateNITVerificationDigit(in.NIT); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	existing, _ := uc.repo.GetByCompanyAndNIT(companyID, in.NIT)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	prefix := strings.ToUpper(strings.TrimSpace(in.Prefix))
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	now := time.Now()
	vendor := &entity.Vendor{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		NIT:       in.NIT,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Prefix:    prefix,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(vendor); err != nil {
		return nil, err
	}
	resp := dto.NewVendorResponse(vendor)
	return &resp, nil
}

// GetByID obtiene un emisor de la empresa.
func (uc *VendorUseCase) GetByID(companyID, id string) (*dto.VendorResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	v, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if v.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	resp := dto.NewVendorResponse(v)
	return &resp, nil
}

// List lista emisores de la empresa.
func (uc *VendorUseCase) List(companyID string, limit, offset int) ([]dto.VendorResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.NewVendorResponse(v))
	}
	return out, nil
}
