package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
	"github.com/jhoicas/facturacion-simulada/pkg/dian"
)

// CertificateUseCase emite y consulta certificados de firma simulados.
type CertificateUseCase struct {
	repo         repository.CertificateRepository
	vendorRepo   repository.VendorRepository
	issuer       CertificateIssuer
	validityDays int
}

// NewCertificateUseCase construye el caso de uso. validityDays es la vigencia por defecto.
func NewCertificateUseCase(
	repo repository.CertificateRepository,
	vendorRepo repository.VendorRepository,
	issuer CertificateIssuer,
	validityDays int,
) *CertificateUseCase {
	if validityDays <= 0 {
		validityDays = 365
	}
	return &CertificateUseCase{repo: repo, vendorRepo: vendorRepo, issuer: issuer, validityDays: validityDays}
}

// Generate emite un certificado autofirmado para el emisor.
func (uc *CertificateUseCase) Generate(companyID string, in dto.GenerateCertificateRequest) (*dto.CertificateResponse, error) {
	if _, err := uuid.Parse(in.VendorID); err != nil {
		return nil, fmt.Errorf("%w: vendorId inválido", domain.ErrInvalidInput)
	}
	vendor, err := uc.vendorRepo.GetByID(in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	if vendor.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	days := in.ValidityDays
	if days <= 0 {
		days = uc.validityDays
	}
	subject := fmt.Sprintf("CN=%s,serialNumber=%s", vendor.Name, dian.NITBase(vendor.NIT))
	issued, err := uc.issuer.Issue(subject, time.Duration(days)*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("emitir certificado: %w", err)
	}
	cert := &entity.Certificate{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		VendorID:    vendor.ID,
		Subject:     issued.Subject,
		Serial:      issued.Serial,
		Fingerprint: issued.Fingerprint,
		NotBefore:   issued.NotBefore,
		NotAfter:    issued.NotAfter,
		P12:         issued.P12,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(cert); err != nil {
		return nil, err
	}
	resp := dto.NewCertificateResponse(cert)
	return &resp, nil
}

// List lista los certificados de la empresa.
func (uc *CertificateUseCase) List(companyID string) ([]dto.CertificateResponse, error) {
	list, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CertificateResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCertificateResponse(c))
	}
	return out, nil
}

// DownloadP12 devuelve el contenido PKCS#12 y un nombre de archivo.
func (uc *CertificateUseCase) DownloadP12(companyID, id string) ([]byte, string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", domain.ErrNotFound
	}
	cert, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if cert == nil {
		return nil, "", domain.ErrNotFound
	}
	if cert.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	return cert.P12, fmt.Sprintf("certificado_%s.p12", cert.Serial), nil
}
