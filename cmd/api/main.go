package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/certs"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/facturacion-simulada/internal/infrastructure/pdf"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/postgres"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/facturacion-simulada/internal/interfaces/http"
	"github.com/jhoicas/facturacion-simulada/pkg/config"
	"github.com/jhoicas/facturacion-simulada/pkg/logger"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Montos como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	taxRateRepo := postgres.NewTaxRateRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	certificateRepo := postgres.NewCertificateRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := billing.NewProductUseCase(productRepo, taxRateRepo, customerRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo, vendorRepo)
	vendorUC := billing.NewVendorUseCase(vendorRepo)
	taxRateUC := billing.NewTaxRateUseCase(taxRateRepo)

	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		txRunner, invoiceRepo, customerRepo, vendorRepo, productRepo,
		billing.DIANSettings{
			TechnicalKey: cfg.DIAN.TechnicalKey,
			Environment:  cfg.DIAN.Environment,
			QRBaseURL:    cfg.DIAN.QRBaseURL,
		},
		log.Component("invoices"),
	)

	// PDF: representación gráfica de la factura simulada
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, vendorRepo, customerRepo, infrapdf.NewGenerator())
	invoiceXMLUC := billing.NewXMLUseCase(invoicePDFUC, ubl.NewBuilder())

	outbox, err := mail.NewOutboxSender(cfg.Mail.From, cfg.Mail.OutboxDir, log.Component("mail"))
	if err != nil {
		log.Fatal().Err(err).Msg("outbox de correo")
	}
	emailUC := billing.NewEmailUseCase(invoicePDFUC, invoiceRepo, outbox, log.Component("mail"))

	issuer, err := certs.NewIssuer(cfg.DIAN.CertPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("emisor de certificados")
	}
	certificateUC := billing.NewCertificateUseCase(certificateRepo, vendorRepo, issuer, cfg.DIAN.CertValidityDays)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		VendorUC:      vendorUC,
		TaxRateUC:     taxRateUC,
		CreateInvoice: createInvoiceUC,
		InvoicePDF:    invoicePDFUC,
		InvoiceXML:    invoiceXMLUC,
		InvoiceEmail:  emailUC,
		CertificateUC: certificateUC,
		Tokens: httpRouter.TokenIssuer{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			ExpMinutes: cfg.JWT.Expiration,
			Enabled:    cfg.App.Env != "production",
		},
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
