package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
	"github.com/jhoicas/facturacion-simulada/pkg/jwt"
)

// RouterDeps dependencias de la API REST.
type RouterDeps struct {
	ProductUC     *billing.ProductUseCase
	CustomerUC    *billing.CustomerUseCase
	VendorUC      *billing.VendorUseCase
	TaxRateUC     *billing.TaxRateUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	InvoicePDF    *billing.PDFUseCase
	InvoiceXML    *billing.XMLUseCase
	InvoiceEmail  *billing.EmailUseCase
	CertificateUC *billing.CertificateUseCase
	Tokens        TokenIssuer
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Tokens)
	api.Post("/auth/token", authHandler.Token)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleFacturador, jwt.RoleConsulta)
	billers := RequireRole(jwt.RoleAdmin, jwt.RoleFacturador)
	admins := RequireRole(jwt.RoleAdmin)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/search", anyRole, productHandler.Search)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", billers, productHandler.Create)
	products.Put("/:id", billers, productHandler.Update)
	products.Delete("/:id", admins, productHandler.Delete)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", anyRole, customerHandler.List)
	customers.Get("/:id", anyRole, customerHandler.GetByID)
	customers.Post("/", billers, customerHandler.Create)

	vendors := protected.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Get("/", anyRole, vendorHandler.List)
	vendors.Get("/:id", anyRole, vendorHandler.GetByID)
	vendors.Post("/", admins, vendorHandler.Create)

	taxRates := protected.Group("/tax-rates")
	taxRateHandler := NewTaxRateHandler(deps.TaxRateUC)
	taxRates.Get("/", anyRole, taxRateHandler.List)
	taxRates.Get("/:id", anyRole, taxRateHandler.GetByID)
	taxRates.Post("/", admins, taxRateHandler.Create)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoicePDF, deps.InvoiceXML, deps.InvoiceEmail)
	invoices.Get("/", anyRole, invoiceHandler.List)
	invoices.Post("/", billers, invoiceHandler.Create)
	invoices.Get("/:id", anyRole, invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", anyRole, invoiceHandler.DownloadPDF)
	invoices.Get("/:id/xml", anyRole, invoiceHandler.DownloadXML)
	invoices.Post("/:id/email", billers, invoiceHandler.SendEmail)

	certificates := protected.Group("/certificates")
	certificateHandler := NewCertificateHandler(deps.CertificateUC)
	certificates.Get("/", admins, certificateHandler.List)
	certificates.Post("/", admins, certificateHandler.Generate)
	certificates.Get("/:id/p12", admins, certificateHandler.DownloadP12)
}
