package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, vendor_id, customer_id, prefix, number, date, due_date, notes,
	subtotal, tax_total, total, status, cufe, qr_data, created_at, updated_at`

// Create persiste la cabecera y las líneas en el orden de invoice.Items.
// Usar dentro de una transacción (TxRunner) para que sea atómico.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	ctx := context.Background()
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.VendorID, invoice.CustomerID, invoice.Prefix, invoice.Number,
		invoice.Date, invoice.DueDate, invoice.Notes,
		invoice.Subtotal, invoice.TaxTotal, invoice.Total, invoice.Status,
		nullIfEmpty(invoice.CUFE), nullIfEmpty(invoice.QRData),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, invoice.FullNumber())
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente o vendedor inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	itemQuery := `
		INSERT INTO invoice_items (id, invoice_id, position, product_id, name, description, quantity,
		                           unit_price, tax_rate, subtotal, tax_amount, total, customer_id, customer_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for i := range invoice.Items {
		it := &invoice.Items[i]
		if _, err := uuid.Parse(it.ID); err != nil {
			it.ID = uuid.New().String()
		}
		it.InvoiceID = invoice.ID
		var productID *string
		if entity.IsRealProductID(it.ProductID) {
			productID = &it.ProductID
		}
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.InvoiceID, i, productID, it.Name, it.Description, it.Quantity,
			it.UnitPrice, it.TaxRate, it.Subtotal, it.TaxAmount, it.Total,
			nullIfEmpty(it.CustomerID), it.CustomerName,
		); err != nil {
			return fmt.Errorf("insert invoice item %d: %w", i, err)
		}
	}
	return nil
}

// NextNumber incrementa y devuelve el consecutivo de (empresa, prefijo). El primero es 1.
func (r *InvoiceRepo) NextNumber(companyID, prefix string) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (company_id, prefix, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, prefix)
		DO UPDATE SET last_number = invoice_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, companyID, prefix).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

// UpdateStatus actualiza estado, CUFE y QR de la factura.
func (r *InvoiceRepo) UpdateStatus(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status     = $2,
		    cufe       = COALESCE($3, cufe),
		    qr_data    = COALESCE($4, qr_data),
		    updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status, nullIfEmpty(invoice.CUFE), nullIfEmpty(invoice.QRData), invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la factura con sus líneas. Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	ctx := context.Background()
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, name, description, quantity, unit_price, tax_rate,
		       subtotal, tax_amount, total, customer_id, customer_name
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InvoiceLineItem
		var productID, customerID *string
		if err := rows.Scan(&it.ID, &it.InvoiceID, &productID, &it.Name, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.Subtotal, &it.TaxAmount, &it.Total, &customerID, &it.CustomerName); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		it.ProductID = derefStr(productID)
		if it.ProductID == "" {
			it.ProductID = entity.ProductIDNew
		}
		it.CustomerID = derefStr(customerID)
		inv.Items = append(inv.Items, it)
	}
	return inv, rows.Err()
}

// ListByCompany lista cabeceras (sin líneas), más recientes primero.
func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1
		 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var cufe, qrData *string
	if err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.VendorID, &inv.CustomerID, &inv.Prefix, &inv.Number,
		&inv.Date, &inv.DueDate, &inv.Notes,
		&inv.Subtotal, &inv.TaxTotal, &inv.Total, &inv.Status, &cufe, &qrData,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.CUFE = derefStr(cufe)
	inv.QRData = derefStr(qrData)
	return &inv, nil
}
