package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// XMLUseCase entrega el XML UBL de una factura con CUFE. Reutiliza la carga del PDF.
type XMLUseCase struct {
	pdf     *PDFUseCase
	builder InvoiceXMLBuilder
}

// NewXMLUseCase construye el caso de uso.
func NewXMLUseCase(pdf *PDFUseCase, builder InvoiceXMLBuilder) *XMLUseCase {
	return &XMLUseCase{pdf: pdf, builder: builder}
}

// DownloadInvoiceXML mismas reglas que el PDF: empresa del token y factura firmada.
func (uc *XMLUseCase) DownloadInvoiceXML(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	inv, vendor, customer, err := uc.pdf.load(companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.builder.BuildInvoiceXML(ctx, inv, vendor, customer)
	if err != nil {
		return nil, "", fmt.Errorf("xml: generación fallida: %w", err)
	}
	return out, xmlFilename(inv), nil
}

func xmlFilename(inv *entity.Invoice) string {
	return fmt.Sprintf("factura_%s.xml", inv.FullNumber())
}
