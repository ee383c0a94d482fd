package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	domaindian "github.com/jhoicas/facturacion-simulada/internal/domain/dian"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
	"github.com/jhoicas/facturacion-simulada/pkg/dian"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

var hundred = decimal.NewFromInt(100)

// DIANSettings parámetros de la simulación DIAN usados al crear facturas.
// Sin TechnicalKey la factura queda en DRAFT (sin CUFE ni QR).
type DIANSettings struct {
	TechnicalKey string
	Environment  string
	QRBaseURL    string
}

// CreateInvoiceUseCase crea facturas a partir de las líneas de un borrador.
// Los totales siempre se recalculan en el servidor; el envío a la DIAN es simulado.
type CreateInvoiceUseCase struct {
	txRunner     TxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	productRepo  repository.ProductRepository
	cufe         *dian.CufeCalculatorService
	settings     DIANSettings
	now          func() time.Time
	log          zerolog.Logger
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
	settings DIANSettings,
	log zerolog.Logger,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		productRepo:  productRepo,
		cufe:         dian.NewCufeCalculatorService(),
		settings:     settings,
		now:          time.Now,
		log:          log,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *CreateInvoiceUseCase) WithClock(now func() time.Time) *CreateInvoiceUseCase {
	uc.now = now
	return uc
}

// CreateInvoice valida la cabecera y las líneas, reserva el consecutivo, calcula CUFE y QR
// y persiste todo en una sola transacción.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	data := in.InvoiceData
	if data.CustomerID == "" {
		return nil, &domain.SubmissionValidationError{Field: domain.FieldCustomer}
	}
	if data.VendorID == "" {
		return nil, &domain.SubmissionValidationError{Field: domain.FieldVendor}
	}
	if len(in.Items) == 0 {
		return nil, &domain.SubmissionValidationError{Field: domain.FieldItems}
	}

	customer, err := uc.loadCustomer(companyID, data.CustomerID)
	if err != nil {
		return nil, err
	}
	vendor, err := uc.loadVendor(companyID, data.VendorID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	date, dueDate, err := parseDates(data.Date, data.DueDate, now)
	if err != nil {
		return nil, err
	}
	items, err := uc.buildItems(companyID, in.Items, customer)
	if err != nil {
		return nil, err
	}
	totals := invoicing.ComputeTotals(items)

	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		VendorID:   vendor.ID,
		CustomerID: customer.ID,
		Prefix:     vendor.Prefix,
		Date:       date,
		DueDate:    dueDate,
		Notes:      strings.TrimSpace(data.Notes),
		Subtotal:   totals.Subtotal,
		TaxTotal:   totals.TaxTotal,
		Total:      totals.Total,
		Status:     entity.InvoiceStatusDraft,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if inv.Prefix == "" {
		inv.Prefix = DefaultInvoicePrefix
	}
	if err := domaindian.ValidateInvoice(inv, vendor, customer); err != nil {
		return nil, err
	}

	err = uc.txRunner.RunInvoice(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.CustomerRepository,
		_ repository.VendorRepository,
	) error {
		n, err := invoiceRepo.NextNumber(companyID, inv.Prefix)
		if err != nil {
			return err
		}
		inv.Number = strconv.FormatInt(n, 10)
		if err := uc.sign(inv, vendor, customer); err != nil {
			return err
		}
		return invoiceRepo.Create(inv)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Msg("no se pudo crear la factura")
		return nil, err
	}

	metrics.InvoicesCreated.Inc()
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.FullNumber()).
		Str("status", inv.Status).
		Str("total", inv.Total.String()).
		Msg("factura creada")
	resp := dto.NewInvoiceResponse(inv, customer.Name)
	return &resp, nil
}

// GetInvoice obtiene una factura de la empresa con sus líneas.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := loadInvoice(uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if c, _ := uc.customerRepo.GetByID(inv.CustomerID); c != nil {
		customerName = c.Name
	}
	resp := dto.NewInvoiceResponse(inv, customerName)
	return &resp, nil
}

// ListInvoices lista cabeceras de factura de la empresa.
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, companyID string, limit, offset int) ([]dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := uc.invoiceRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.NewInvoiceResponse(inv, ""))
	}
	return out, nil
}

// sign calcula CUFE y QR simulados. Sin clave técnica la factura queda en DRAFT.
func (uc *CreateInvoiceUseCase) sign(inv *entity.Invoice, vendor *entity.Vendor, customer *entity.Customer) error {
	if uc.settings.TechnicalKey == "" {
		uc.log.Warn().Str("invoice_id", inv.ID).Msg("sin clave técnica: la factura queda en borrador")
		return nil
	}
	ivaTotal, incTotal := taxByCode(inv.Items)
	cufe, err := uc.cufe.Calculate(&dian.CufeParams{
		NumFac:    inv.FullNumber(),
		FecFac:    inv.Date.Format(dto.DateLayout),
		ValFac:    inv.Subtotal,
		ValImpIVA: ivaTotal,
		ValImpINC: incTotal,
		ValImpICA: decimal.Zero,
		ValPag:    inv.Total,
		NitOfe:    dian.NITBase(vendor.NIT),
		DocAdq:    customerDocument(customer),
		ClTec:     uc.settings.TechnicalKey,
		TipoAmb:   uc.settings.Environment,
	})
	if err != nil {
		return fmt.Errorf("calcular CUFE: %w", err)
	}
	inv.CUFE = cufe
	inv.QRData = dian.BuildQRData(dian.QRInput{
		NumFac:   inv.FullNumber(),
		Date:     inv.Date,
		Total:    inv.Total,
		TaxTotal: inv.TaxTotal,
		CUFE:     cufe,
		BaseURL:  uc.settings.QRBaseURL,
	})
	inv.Status = entity.InvoiceStatusSignedSimulated
	return nil
}

// buildItems convierte las líneas recibidas y completa nombre y cliente faltantes.
// Cantidad < 1, precio negativo o un producto repetido invalidan la factura.
func (uc *CreateInvoiceUseCase) buildItems(companyID string, in []dto.LineItem, customer *entity.Customer) ([]entity.InvoiceLineItem, error) {
	seen := make(map[string]bool, len(in))
	items := make([]entity.InvoiceLineItem, 0, len(in))
	for i, li := range in {
		item := li.ToEntity()
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
		if entity.IsRealProductID(item.ProductID) {
			if seen[item.ProductID] {
				return nil, fmt.Errorf("%w: producto %s repetido", domain.ErrInvalidInput, item.ProductID)
			}
			seen[item.ProductID] = true
			if item.Name == "" {
				p, err := uc.productRepo.GetByID(item.ProductID)
				if err != nil {
					return nil, err
				}
				if p == nil || p.CompanyID != companyID {
					return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, item.ProductID)
				}
				item.Name = p.Name
				if item.Description == "" {
					item.Description = p.Description
				}
			}
		} else {
			item.ProductID = entity.ProductIDNew
		}
		if item.CustomerID == "" {
			item.CustomerID = customer.ID
			item.CustomerName = customer.Name
		}
		items = append(items, item)
	}
	return items, nil
}

func (uc *CreateInvoiceUseCase) loadCustomer(companyID, id string) (*entity.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	c, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (uc *CreateInvoiceUseCase) loadVendor(companyID, id string) (*entity.Vendor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, id)
	}
	v, err := uc.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, id)
	}
	if v.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return v, nil
}

// loadInvoice carga la factura y verifica que pertenezca a la empresa.
func loadInvoice(repo repository.InvoiceRepository, companyID, id string) (*entity.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	inv, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// parseDates interpreta fecha y vencimiento (YYYY-MM-DD). Fecha vacía = hoy.
func parseDates(dateStr, dueStr string, now time.Time) (time.Time, *time.Time, error) {
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if s := strings.TrimSpace(dateStr); s != "" {
		d, err := time.Parse(dto.DateLayout, s)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, dateStr)
		}
		date = d
	}
	s := strings.TrimSpace(dueStr)
	if s == "" {
		return date, nil, nil
	}
	due, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: vencimiento %q", domain.ErrInvalidInput, dueStr)
	}
	if due.Before(date) {
		return time.Time{}, nil, fmt.Errorf("%w: el vencimiento es anterior a la fecha", domain.ErrInvalidInput)
	}
	return date, &due, nil
}

// taxByCode reparte el impuesto total entre IVA e INC. Tarifas de 8% se tratan como INC.
func taxByCode(items []entity.InvoiceLineItem) (iva, inc decimal.Decimal) {
	eight := decimal.NewFromInt(8)
	for _, it := range items {
		if it.TaxRate.Equal(eight) {
			inc = inc.Add(it.TaxAmount)
			continue
		}
		iva = iva.Add(it.TaxAmount)
	}
	return iva, inc
}

func customerDocument(c *entity.Customer) string {
	if c.IDType == dian.IdentificationTypeNIT {
		return dian.NITBase(c.TaxID)
	}
	return dian.OnlyDigits(c.TaxID)
}
