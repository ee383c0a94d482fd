package invoicing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// ProductFetcher consulta un producto remoto por ID. Devuelve (nil, nil) si no existe.
type ProductFetcher interface {
	ProductByID(ctx context.Context, id string) (*entity.Product, error)
}

// CustomerDirectory resuelve el nombre de un cliente por ID.
type CustomerDirectory interface {
	CustomerName(ctx context.Context, id string) (string, bool)
}

// LineField campo editable de una línea de factura.
type LineField string

const (
	FieldProductID   LineField = "productId"
	FieldName        LineField = "name"
	FieldDescription LineField = "description"
	FieldQuantity    LineField = "quantity"
	FieldUnitPrice   LineField = "unitPrice"
	FieldTaxRate     LineField = "taxRate"
	FieldCustomerID  LineField = "customerId"
)

// LineUpdate cambio de un campo de una línea. Value llega como texto del formulario.
type LineUpdate struct {
	Field LineField
	Value string
}

// Resolver construye y modifica líneas de factura a partir del catálogo.
// Todas las operaciones devuelven una lista nueva; la recibida no se modifica.
type Resolver struct {
	products  ProductFetcher
	taxes     *TaxNormalizer
	customers CustomerDirectory
	newID     func() string
	log       zerolog.Logger
}

// NewResolver construye el resolvedor. products y customers pueden ser nil.
func NewResolver(products ProductFetcher, lookup TaxRateLookup, customers CustomerDirectory, log zerolog.Logger) *Resolver {
	return &Resolver{
		products:  products,
		taxes:     NewTaxNormalizer(lookup, log),
		customers: customers,
		newID:     func() string { return uuid.New().String() },
		log:       log,
	}
}

// WithIDGenerator reemplaza el generador de IDs de línea (útil en pruebas).
func (r *Resolver) WithIDGenerator(gen func() string) *Resolver {
	r.newID = gen
	return r
}

// Add agrega una línea para productID al final de items.
// Si el producto ya tiene línea devuelve items sin cambios. Si el producto no está
// en el catálogo se consulta remoto y, si aparece, se incorpora al catálogo.
func (r *Resolver) Add(
	ctx context.Context,
	productID string,
	items []entity.InvoiceLineItem,
	catalog *Catalog,
	invoiceCustomerID string,
) ([]entity.InvoiceLineItem, error) {
	if !entity.IsRealProductID(productID) {
		return items, domain.ErrInvalidInput
	}
	if indexOfProduct(items, productID) >= 0 {
		return items, nil
	}
	product, err := r.findProduct(ctx, productID, catalog)
	if err != nil {
		return items, err
	}

	item := entity.InvoiceLineItem{
		ID:          r.newID(),
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		Quantity:    1,
		UnitPrice:   product.Price,
		TaxRate:     r.taxes.EffectiveRate(ctx, product),
	}
	item.CustomerID = product.CustomerID
	if item.CustomerID == "" {
		item.CustomerID = invoiceCustomerID
	}
	item.CustomerName = r.customerName(ctx, product, item.CustomerID)
	item.Recompute()

	out := make([]entity.InvoiceLineItem, len(items), len(items)+1)
	copy(out, items)
	return append(out, item), nil
}

// AddBlank agrega una línea libre (sin producto) con cantidad 1 y precio 0.
func (r *Resolver) AddBlank(ctx context.Context, items []entity.InvoiceLineItem, invoiceCustomerID string) []entity.InvoiceLineItem {
	item := entity.InvoiceLineItem{
		ID:         r.newID(),
		ProductID:  entity.ProductIDNew,
		Quantity:   1,
		UnitPrice:  decimal.Zero,
		TaxRate:    decimal.Zero,
		CustomerID: invoiceCustomerID,
	}
	if invoiceCustomerID != "" && r.customers != nil {
		item.CustomerName, _ = r.customers.CustomerName(ctx, invoiceCustomerID)
	}
	item.Recompute()
	out := make([]entity.InvoiceLineItem, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

// Update aplica upd a la línea itemID y recalcula sus totales.
// Si la línea no existe devuelve items sin cambios.
func (r *Resolver) Update(
	ctx context.Context,
	itemID string,
	upd LineUpdate,
	items []entity.InvoiceLineItem,
	catalog *Catalog,
) ([]entity.InvoiceLineItem, error) {
	idx := indexOfItem(items, itemID)
	if idx < 0 {
		return items, nil
	}
	out := make([]entity.InvoiceLineItem, len(items))
	copy(out, items)
	item := &out[idx]

	switch upd.Field {
	case FieldProductID:
		value := strings.TrimSpace(upd.Value)
		if !entity.IsRealProductID(value) {
			item.ProductID = value
			break
		}
		if value == item.ProductID {
			return items, nil
		}
		if indexOfProduct(items, value) >= 0 {
			// el producto ya tiene su propia línea
			return items, nil
		}
		product, err := r.findProduct(ctx, value, catalog)
		if err != nil {
			return items, err
		}
		item.ProductID = product.ID
		item.Name = product.Name
		item.Description = product.Description
		item.UnitPrice = product.Price
		item.TaxRate = r.taxes.EffectiveRate(ctx, product)
	case FieldName:
		item.Name = upd.Value
	case FieldDescription:
		item.Description = upd.Value
	case FieldQuantity:
		q, err := parseNumber(upd.Value)
		if err != nil {
			return items, err
		}
		item.Quantity = clampQuantity(q)
	case FieldUnitPrice:
		p, err := parseNumber(upd.Value)
		if err != nil {
			return items, err
		}
		if p.IsNegative() {
			p = decimal.Zero
		}
		item.UnitPrice = p
	case FieldTaxRate:
		t, err := parseNumber(upd.Value)
		if err != nil {
			return items, err
		}
		item.TaxRate = t
	case FieldCustomerID:
		item.CustomerID = strings.TrimSpace(upd.Value)
		item.CustomerName = ""
		if item.CustomerID != "" && r.customers != nil {
			item.CustomerName, _ = r.customers.CustomerName(ctx, item.CustomerID)
		}
	default:
		return items, fmt.Errorf("%w: campo %q no editable", domain.ErrInvalidInput, upd.Field)
	}

	item.Recompute()
	return out, nil
}

// Remove quita la línea itemID. Si no existe devuelve items sin cambios.
func Remove(itemID string, items []entity.InvoiceLineItem) []entity.InvoiceLineItem {
	if indexOfItem(items, itemID) < 0 {
		return items
	}
	out := make([]entity.InvoiceLineItem, 0, len(items)-1)
	for _, it := range items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	return out
}

func (r *Resolver) findProduct(ctx context.Context, id string, catalog *Catalog) (*entity.Product, error) {
	if p, ok := catalog.Find(id); ok {
		return p, nil
	}
	if r.products == nil {
		return nil, domain.ErrProductNotFound
	}
	p, err := r.products.ProductByID(ctx, id)
	if err != nil {
		r.log.Warn().Err(err).Str("product_id", id).Msg("consulta remota de producto fallida")
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProductNotFound, err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if catalog != nil {
		catalog.Merge(*p)
	}
	return p, nil
}

func (r *Resolver) customerName(ctx context.Context, p *entity.Product, customerID string) string {
	if p.CustomerID != "" && p.CustomerName != "" {
		return p.CustomerName
	}
	if customerID == "" || r.customers == nil {
		return ""
	}
	name, _ := r.customers.CustomerName(ctx, customerID)
	return name
}

func indexOfProduct(items []entity.InvoiceLineItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func indexOfItem(items []entity.InvoiceLineItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func parseNumber(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: valor numérico %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}

// MaxQuantity cantidad máxima por línea.
const MaxQuantity = math.MaxInt32

var maxQuantity = decimal.NewFromInt(MaxQuantity)

// clampQuantity trunca hacia abajo y deja la cantidad en [1, MaxQuantity].
func clampQuantity(q decimal.Decimal) int {
	f := q.Floor()
	if f.LessThan(decimal.NewFromInt(1)) {
		return 1
	}
	if f.GreaterThan(maxQuantity) {
		return MaxQuantity
	}
	return int(f.IntPart())
}
