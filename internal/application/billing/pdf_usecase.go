package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
// Solo se permite si la factura ya tiene CUFE (no está en DRAFT).
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	vendorRepo   repository.VendorRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	vendorRepo repository.VendorRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		vendorRepo:   vendorRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF carga factura, emisor y cliente y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la empresa del token.
//   - domain.ErrInvalidInput     si la factura está en DRAFT (aún sin CUFE).
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, vendor, customer, err := uc.load(companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, vendor, customer)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, pdfFilename(inv), nil
}

func (uc *PDFUseCase) load(companyID, invoiceID string) (*entity.Invoice, *entity.Vendor, *entity.Customer, error) {
	// ── 1. Factura ────────────────────────────────────────────────────────────
	inv, err := loadInvoice(uc.invoiceRepo, companyID, invoiceID)
	if err != nil {
		return nil, nil, nil, err
	}

	// ── 2. Debe estar firmada (tiene CUFE) ────────────────────────────────────
	if inv.Status == entity.InvoiceStatusDraft || inv.CUFE == "" {
		return nil, nil, nil, fmt.Errorf("%w: la factura está en estado %s, no tiene CUFE",
			domain.ErrInvalidInput, inv.Status)
	}

	// ── 3. Emisor y cliente ───────────────────────────────────────────────────
	vendor, err := uc.vendorRepo.GetByID(inv.VendorID)
	if err != nil || vendor == nil {
		return nil, nil, nil, fmt.Errorf("pdf: obtener emisor: %w", orNotFound(err))
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, nil, nil, fmt.Errorf("pdf: obtener cliente: %w", orNotFound(err))
	}
	return inv, vendor, customer, nil
}

func pdfFilename(inv *entity.Invoice) string {
	return fmt.Sprintf("factura_%s.pdf", inv.FullNumber())
}

func orNotFound(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrNotFound
}
