package billing

import (
	"context"
	"time"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de facturación.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		customerRepo repository.CustomerRepository,
		vendorRepo repository.VendorRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, vendor *entity.Vendor, customer *entity.Customer) ([]byte, error)
}

// InvoiceXMLBuilder genera el XML UBL 2.1 (simulado, sin firma) de una factura.
type InvoiceXMLBuilder interface {
	BuildInvoiceXML(ctx context.Context, inv *entity.Invoice, vendor *entity.Vendor, customer *entity.Customer) ([]byte, error)
}

// OutgoingMail correo listo para el outbox.
type OutgoingMail struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// MailSender entrega (simulada) de correos. Devuelve la ruta del mensaje escrito.
type MailSender interface {
	Send(ctx context.Context, msg OutgoingMail) (string, error)
}

// CertificateIssuer emite certificados simulados (autofirmados, PKCS#12).
type CertificateIssuer interface {
	Issue(subject string, validity time.Duration) (*IssuedCertificate, error)
}

// IssuedCertificate resultado de la emisión.
type IssuedCertificate struct {
	Serial      string
	Fingerprint string
	Subject     string
	P12         []byte
	NotBefore   time.Time
	NotAfter    time.Time
}
