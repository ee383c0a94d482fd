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

// TaxRateUseCase casos de uso para tarifas de impuesto.
type TaxRateUseCase struct {
	repo repository.TaxRateRepository
}

// NewTaxRateUseCase construye el caso de uso.
func NewTaxRateUseCase(repo repository.TaxRateRepository) *TaxRateUseCase {
	return &TaxRateUseCase{repo: repo}
}

// Create registra una tarifa. rate es un porcentaje entre 0 y 100.
func (uc *TaxRateUseCase) Create(companyID string, in dto.CreateTaxRateRequest) (*dto.TaxRateResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	if in.Rate.IsNegative() || in.Rate.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: la tarifa debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	if in.DIANCode == "" {
		in.DIANCode = dian.TaxCodeIVA
	}
	if !dian.ValidTaxCodes[in.DIANCode] {
		return nil, fmt.Errorf("%w: código DIAN %q", domain.ErrInvalidInput, in.DIANCode)
	}
	now := time.Now()
	rate := &entity.TaxRate{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Rate:      in.Rate,
		DIANCode:  in.DIANCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(rate); err != nil {
		return nil, err
	}
	resp := dto.NewTaxRateResponse(rate)
	return &resp, nil
}

// GetByID obtiene una tarifa de la empresa.
func (uc *TaxRateUseCase) GetByID(companyID, id string) (*dto.TaxRateResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	t, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	resp := dto.NewTaxRateResponse(t)
	return &resp, nil
}

// List lista las tarifas de la empresa.
func (uc *TaxRateUseCase) List(companyID string) ([]dto.TaxRateResponse, error) {
	list, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaxRateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewTaxRateResponse(t))
	}
	return out, nil
}
