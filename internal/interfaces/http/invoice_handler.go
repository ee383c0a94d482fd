package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
)

// InvoiceHandler facturas: creación, consulta, PDF y correo simulado.
type InvoiceHandler struct {
	uc    *billing.CreateInvoiceUseCase
	pdf   *billing.PDFUseCase
	xml   *billing.XMLUseCase
	email *billing.EmailUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.CreateInvoiceUseCase, pdf *billing.PDFUseCase, xml *billing.XMLUseCase, email *billing.EmailUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf, xml: xml, email: email}
}

// Create recalcula totales, valida NIT y calcula CUFE/QR simulados.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateInvoice(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List GET /api/invoices?limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	out, err := h.uc.ListInvoices(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// DownloadPDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// DownloadXML GET /api/invoices/:id/xml
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	data, filename, err := h.xml.DownloadInvoiceXML(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// SendEmail escribe el correo con el PDF en el outbox.
// POST /api/invoices/:id/email
func (h *InvoiceHandler) SendEmail(c *fiber.Ctx) error {
	var in dto.EmailInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.email.SendInvoice(c.Context(), GetCompanyID(c), c.Params("id"), in.To)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.OK(out))
}

// CertificateHandler certificados simulados.
type CertificateHandler struct {
	uc *billing.CertificateUseCase
}

// NewCertificateHandler construye el handler.
func NewCertificateHandler(uc *billing.CertificateUseCase) *CertificateHandler {
	return &CertificateHandler{uc: uc}
}

// Generate POST /api/certificates
func (h *CertificateHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateCertificateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Generate(GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// List GET /api/certificates
func (h *CertificateHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// DownloadP12 GET /api/certificates/:id/p12
func (h *CertificateHandler) DownloadP12(c *fiber.Ctx) error {
	data, filename, err := h.uc.DownloadP12(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/x-pkcs12")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
