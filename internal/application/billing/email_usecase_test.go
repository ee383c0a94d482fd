package billing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/ubl"
)

func TestSendInvoice_EscribeCorreoYMarcaEnviada(t *testing.T) {
	f := newInvoiceFixture("clave")
	created, err := f.uc.CreateInvoice(context.Background(), companyID, escenarioRequest())
	require.NoError(t, err)

	pdf := &fakePDF{}
	mail := &fakeMail{}
	pdfUC := billing.NewPDFUseCase(f.invoices, f.vendors, f.customers, pdf)
	uc := billing.NewEmailUseCase(pdfUC, f.invoices, mail, zerolog.Nop())

	resp, err := uc.SendInvoice(context.Background(), companyID, created.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "cliente@example.com", resp.To)
	assert.Equal(t, entity.InvoiceStatusSentSimulated, resp.Status)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "factura_SETP1.pdf", mail.sent[0].AttachmentName)
	assert.Equal(t, []byte("%PDF-SETP1"), mail.sent[0].Attachment)
	assert.Contains(t, mail.sent[0].Subject, "SETP1")
	assert.Contains(t, mail.sent[0].Body, "$171.500")
	assert.Equal(t, 1, pdf.calls)

	stored, _ := f.invoices.GetByID(created.ID)
	assert.Equal(t, entity.InvoiceStatusSentSimulated, stored.Status)
}

func TestSendInvoice_BorradorNoSeEnvia(t *testing.T) {
	f := newInvoiceFixture("")
	created, err := f.uc.CreateInvoice(context.Background(), companyID, escenarioRequest())
	require.NoError(t, err)

	mail := &fakeMail{}
	uc := billing.NewEmailUseCase(billing.NewPDFUseCase(f.invoices, f.vendors, f.customers, &fakePDF{}), f.invoices, mail, zerolog.Nop())

	_, err = uc.SendInvoice(context.Background(), companyID, created.ID, "otro@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, mail.sent)
}

func TestSendInvoice_SinCorreo(t *testing.T) {
	f := newInvoiceFixture("clave")
	f.customers[customerID].Email = ""
	created, err := f.uc.CreateInvoice(context.Background(), companyID, escenarioRequest())
	require.NoError(t, err)

	uc := billing.NewEmailUseCase(billing.NewPDFUseCase(f.invoices, f.vendors, f.customers, &fakePDF{}), f.invoices, &fakeMail{}, zerolog.Nop())

	_, err = uc.SendInvoice(context.Background(), companyID, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDownloadInvoicePDF_FacturaInexistente(t *testing.T) {
	f := newInvoiceFixture("clave")
	uc := billing.NewPDFUseCase(f.invoices, f.vendors, f.customers, &fakePDF{})

	_, _, err := uc.DownloadInvoicePDF(context.Background(), companyID, "55555555-5555-5555-5555-555555555555")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadInvoiceXML_UsaElBuilderConNombreDeArchivo(t *testing.T) {
	f := newInvoiceFixture("clave")
	created, err := f.uc.CreateInvoice(context.Background(), companyID, escenarioRequest())
	require.NoError(t, err)

	uc := billing.NewXMLUseCase(billing.NewPDFUseCase(f.invoices, f.vendors, f.customers, &fakePDF{}), ubl.NewBuilder())
	out, name, err := uc.DownloadInvoiceXML(context.Background(), companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_SETP1.xml", name)
	assert.Contains(t, string(out), "<cbc:ID>SETP1</cbc:ID>")
}

func TestDownloadInvoiceXML_BorradorEsInvalido(t *testing.T) {
	f := newInvoiceFixture("")
	created, err := f.uc.CreateInvoice(context.Background(), companyID, escenarioRequest())
	require.NoError(t, err)

	uc := billing.NewXMLUseCase(billing.NewPDFUseCase(f.invoices, f.vendors, f.customers, &fakePDF{}), ubl.NewBuilder())
	_, _, err = uc.DownloadInvoiceXML(context.Background(), companyID, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
