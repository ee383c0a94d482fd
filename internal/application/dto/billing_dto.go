package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// DateLayout formato de fechas de factura en JSON.
const DateLayout = "2006-01-02"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name     string `json:"name"`
	TaxID    string `json:"taxId"`
	IDType   string `json:"idType,omitempty"` // 31 NIT, 13 CC; vacío = 13
	VendorID string `json:"vendorId,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId,omitempty"`
	VendorID  string `json:"vendorId,omitempty"`
	Name      string `json:"name"`
	TaxID     string `json:"taxId"`
	IDType    string `json:"idType,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// NewCustomerResponse mapea la entidad.
func NewCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		VendorID:  c.VendorID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		IDType:    c.IDType,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}

// CreateVendorRequest body para POST /api/vendors.
type CreateVendorRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
}

// VendorResponse emisor en respuestas.
type VendorResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId,omitempty"`
	Name      string `json:"name"`
	NIT       string `json:"nit"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Prefix    string `json:"prefix"`
}

// NewVendorResponse mapea la entidad.
func NewVendorResponse(v *entity.Vendor) VendorResponse {
	return VendorResponse{
		ID:        v.ID,
		CompanyID: v.CompanyID,
		Name:      v.Name,
		NIT:       v.NIT,
		Address:   v.Address,
		Phone:     v.Phone,
		Email:     v.Email,
		Prefix:    v.Prefix,
	}
}

// CreateTaxRateRequest body para POST /api/tax-rates.
type CreateTaxRateRequest struct {
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"rate"`
	DIANCode string          `json:"dianCode,omitempty"` // vacío = 01 (IVA)
}

// TaxRateResponse tarifa en respuestas.
type TaxRateResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"companyId,omitempty"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	DIANCode  string          `json:"dianCode,omitempty"`
}

// NewTaxRateResponse mapea la entidad.
func NewTaxRateResponse(t *entity.TaxRate) TaxRateResponse {
	return TaxRateResponse{ID: t.ID, CompanyID: t.CompanyID, Name: t.Name, Rate: t.Rate, DIANCode: t.DIANCode}
}

// ToEntity convierte la respuesta de la API en entidad.
func (r TaxRateResponse) ToEntity() entity.TaxRate {
	return entity.TaxRate{ID: r.ID, CompanyID: r.CompanyID, Name: r.Name, Rate: r.Rate, DIANCode: r.DIANCode}
}

// LineItem línea de factura o de borrador en JSON.
type LineItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Total        decimal.Decimal `json:"total"`
	CustomerID   string          `json:"customerId,omitempty"`
	CustomerName string          `json:"customerName,omitempty"`
}

// NewLineItems mapea las líneas conservando el orden.
func NewLineItems(items []entity.InvoiceLineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Name:         it.Name,
			Description:  it.Description,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TaxRate:      it.TaxRate,
			Subtotal:     it.Subtotal,
			TaxAmount:    it.TaxAmount,
			Total:        it.Total,
			CustomerID:   it.CustomerID,
			CustomerName: it.CustomerName,
		})
	}
	return out
}

// ToEntity convierte la línea recibida en entidad. Los derivados se recalculan.
func (li LineItem) ToEntity() entity.InvoiceLineItem {
	item := entity.InvoiceLineItem{
		ID:           li.ID,
		ProductID:    li.ProductID,
		Name:         li.Name,
		Description:  li.Description,
		Quantity:     li.Quantity,
		UnitPrice:    li.UnitPrice,
		TaxRate:      li.TaxRate,
		CustomerID:   li.CustomerID,
		CustomerName: li.CustomerName,
	}
	item.Recompute()
	return item
}

// InvoiceData cabecera de POST /api/invoices.
type InvoiceData struct {
	CustomerID string `json:"customerId"`
	VendorID   string `json:"vendorId"`
	Date       string `json:"date,omitempty"`    // YYYY-MM-DD; vacío = hoy
	DueDate    string `json:"dueDate,omitempty"` // YYYY-MM-DD
	Notes      string `json:"notes,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	InvoiceData InvoiceData `json:"invoiceData"`
	Items       []LineItem  `json:"items"`
}

// InvoiceResponse factura con sus líneas.
type InvoiceResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"companyId"`
	VendorID     string          `json:"vendorId"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName,omitempty"`
	Prefix       string          `json:"prefix"`
	Number       string          `json:"number"`
	Date         string          `json:"date"`
	DueDate      string          `json:"dueDate,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CUFE         string          `json:"cufe,omitempty"`
	QRData       string          `json:"qrData,omitempty"` // NumFac|FecFac|ValFac|CodImp|ValImp|Cufe|UrlValidacionDIAN
	Items        []LineItem      `json:"items"`
}

// NewInvoiceResponse mapea la factura y sus líneas.
func NewInvoiceResponse(inv *entity.Invoice, customerName string) InvoiceResponse {
	resp := InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		VendorID:     inv.VendorID,
		CustomerID:   inv.CustomerID,
		CustomerName: customerName,
		Prefix:       inv.Prefix,
		Number:       inv.Number,
		Date:         inv.Date.Format(DateLayout),
		Notes:        inv.Notes,
		Subtotal:     inv.Subtotal,
		TaxTotal:     inv.TaxTotal,
		Total:        inv.Total,
		Status:       inv.Status,
		CUFE:         inv.CUFE,
		QRData:       inv.QRData,
		Items:        NewLineItems(inv.Items),
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format(DateLayout)
	}
	return resp
}

// EmailInvoiceRequest body para POST /api/invoices/:id/email. To vacío = correo del cliente.
type EmailInvoiceRequest struct {
	To string `json:"to,omitempty"`
}

// EmailResponse resultado del envío simulado.
type EmailResponse struct {
	InvoiceID string `json:"invoiceId"`
	To        string `json:"to"`
	Path      string `json:"path"` // archivo .eml en el outbox
	Status    string `json:"status"`
}

// GenerateCertificateRequest body para POST /api/certificates.
type GenerateCertificateRequest struct {
	VendorID     string `json:"vendorId"`
	ValidityDays int    `json:"validityDays,omitempty"`
}

// CertificateResponse certificado simulado (sin el contenido P12).
type CertificateResponse struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendorId"`
	Subject     string    `json:"subject"`
	Serial      string    `json:"serial"`
	Fingerprint string    `json:"fingerprint"`
	NotBefore   time.Time `json:"notBefore"`
	NotAfter    time.Time `json:"notAfter"`
}

// NewCertificateResponse mapea la entidad.
func NewCertificateResponse(c *entity.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:          c.ID,
		VendorID:    c.VendorID,
		Subject:     c.Subject,
		Serial:      c.Serial,
		Fingerprint: c.Fingerprint,
		NotBefore:   c.NotBefore,
		NotAfter:    c.NotAfter,
	}
}

// TokenRequest body para POST /api/auth/token (emisión de tokens de desarrollo).
type TokenRequest struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Role      string `json:"role,omitempty"`
}

// TokenResponse token firmado.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // segundos
}
