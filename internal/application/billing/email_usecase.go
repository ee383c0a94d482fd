package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
	"github.com/jhoicas/facturacion-simulada/pkg/money"
)

// EmailUseCase envía (simulado) la factura al cliente con el PDF adjunto.
type EmailUseCase struct {
	pdf         *PDFUseCase
	invoiceRepo repository.InvoiceRepository
	sender      MailSender
	log         zerolog.Logger
}

// NewEmailUseCase construye el caso de uso.
func NewEmailUseCase(pdf *PDFUseCase, invoiceRepo repository.InvoiceRepository, sender MailSender, log zerolog.Logger) *EmailUseCase {
	return &EmailUseCase{pdf: pdf, invoiceRepo: invoiceRepo, sender: sender, log: log}
}

// SendInvoice escribe el correo en el outbox y marca la factura como SENT_SIMULATED.
// to vacío usa el correo del cliente.
func (uc *EmailUseCase) SendInvoice(ctx context.Context, companyID, invoiceID, to string) (*dto.EmailResponse, error) {
	inv, vendor, customer, err := uc.pdf.load(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	to = strings.TrimSpace(to)
	if to == "" {
		to = customer.Email
	}
	if to == "" || !strings.Contains(to, "@") {
		return nil, fmt.Errorf("%w: el cliente no tiene correo", domain.ErrInvalidInput)
	}
	pdfBytes, err := uc.pdf.generator.GenerateInvoicePDF(ctx, inv, vendor, customer)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}

	path, err := uc.sender.Send(ctx, OutgoingMail{
		To:             to,
		Subject:        fmt.Sprintf("Factura electrónica %s - %s", inv.FullNumber(), vendor.Name),
		Body:           emailBody(inv, vendor, customer),
		AttachmentName: pdfFilename(inv),
		Attachment:     pdfBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("correo: %w", err)
	}

	inv.Status = entity.InvoiceStatusSentSimulated
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.UpdateStatus(inv); err != nil {
		return nil, err
	}
	metrics.EmailsQueued.Inc()
	uc.log.Info().Str("invoice_id", inv.ID).Str("to", to).Str("path", path).Msg("correo simulado escrito en el outbox")
	return &dto.EmailResponse{InvoiceID: inv.ID, To: to, Path: path, Status: inv.Status}, nil
}

func emailBody(inv *entity.Invoice, vendor *entity.Vendor, customer *entity.Customer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Señor(a) %s,\n\n", customer.Name)
	fmt.Fprintf(&b, "%s le envía la factura electrónica %s del %s.\n\n",
		vendor.Name, inv.FullNumber(), inv.Date.Format(dto.DateLayout))
	fmt.Fprintf(&b, "Subtotal: %s\nImpuestos: %s\nTotal: %s\n\n",
		money.Format(inv.Subtotal), money.Format(inv.TaxTotal), money.Format(inv.Total))
	fmt.Fprintf(&b, "CUFE: %s\n\n", inv.CUFE)
	b.WriteString("Este documento es una simulación y no tiene validez ante la DIAN.\n")
	return b.String()
}
