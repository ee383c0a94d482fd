package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.company_id, p.sku, p.name, p.description, p.price,
	p.tax_rate_id, p.tax_rate, p.tax_rates, p.customer_id, COALESCE(c.name, ''),
	p.unit_measure, p.created_at, p.updated_at`

const productFrom = `FROM products p LEFT JOIN customers c ON c.id = p.customer_id`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	taxRate, taxRates, err := encodeTaxFields(product)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (id, company_id, sku, name, description, price, tax_rate_id, tax_rate, tax_rates, customer_id, unit_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(context.Background(), query,
		product.ID, product.CompanyID, product.SKU, product.Name, product.Description, product.Price,
		nullIfEmpty(product.TaxRateID), taxRate, taxRates, nullIfEmpty(product.CustomerID),
		product.UnitMeasure, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: tarifa o cliente inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.company_id = $1 AND p.sku = $2`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, companyID, sku))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza datos comerciales e impuestos del producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	taxRate, taxRates, err := encodeTaxFields(product)
	if err != nil {
		return err
	}
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, price = $5, tax_rate_id = $6,
		       tax_rate = $7, tax_rates = $8, customer_id = $9, unit_measure = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description, product.Price,
		nullIfEmpty(product.TaxRateID), taxRate, taxRates, nullIfEmpty(product.CustomerID),
		product.UnitMeasure, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista productos en orden de creación. customerID vacío = todos;
// con cliente devuelve los suyos más los generales (sin dueño).
func (r *ProductRepo) ListByCompany(companyID, customerID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.company_id = $1 AND ($2::uuid IS NULL OR p.customer_id = $2::uuid OR p.customer_id IS NULL)
		ORDER BY p.created_at, p.id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, nullIfEmpty(customerID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// Search filtra por término (nombre, descripción o SKU), dueño y rango de precio.
func (r *ProductRepo) Search(companyID string, q repository.ProductSearch) ([]*entity.Product, error) {
	conds := []string{"p.company_id = $1"}
	args := []any{companyID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if term := strings.TrimSpace(q.Term); term != "" {
		add("(p.name ILIKE $%[1]d OR p.description ILIKE $%[1]d OR p.sku ILIKE $%[1]d)", "%"+escapeLike(term)+"%")
	}
	switch q.CustomerID {
	case "", "all":
	case "general":
		conds = append(conds, "p.customer_id IS NULL")
	default:
		add("p.customer_id = $%d::uuid", q.CustomerID)
	}
	if q.MinPrice != nil {
		add("p.price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		add("p.price <= $%d", *q.MaxPrice)
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)

	query := `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY p.created_at, p.id LIMIT $` + fmt.Sprint(len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return collectProducts(rows)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var taxRateID, customerID *string
	var taxRate, taxRates []byte
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&taxRateID, &taxRate, &taxRates, &customerID, &p.CustomerName,
		&p.UnitMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.TaxRateID = derefStr(taxRateID)
	p.CustomerID = derefStr(customerID)
	if len(taxRate) > 0 {
		_ = json.Unmarshal(taxRate, &p.TaxRate) // nunca falla: forma desconocida = malformada
	}
	if len(taxRates) > 0 {
		if err := json.Unmarshal(taxRates, &p.TaxRates); err != nil {
			p.TaxRates = nil
		}
	}
	return &p, nil
}

// encodeTaxFields serializa taxRate/taxRates conservando la forma recibida. Ausente = NULL.
func encodeTaxFields(p *entity.Product) (taxRate, taxRates []byte, err error) {
	if p.TaxRate.Shape != entity.TaxShapeAbsent && p.TaxRate.Shape != entity.TaxShapeMalformed {
		if taxRate, err = json.Marshal(p.TaxRate); err != nil {
			return nil, nil, fmt.Errorf("encode tax_rate: %w", err)
		}
	}
	if len(p.TaxRates) > 0 {
		if taxRates, err = json.Marshal(p.TaxRates); err != nil {
			return nil, nil, fmt.Errorf("encode tax_rates: %w", err)
		}
	}
	return taxRate, taxRates, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
