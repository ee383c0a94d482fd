package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

var _ repository.TaxRateRepository = (*TaxRateRepo)(nil)

// TaxRateRepo implementación de TaxRateRepository.
type TaxRateRepo struct {
	q Querier
}

// NewTaxRateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaxRateRepository(q Querier) *TaxRateRepo {
	return &TaxRateRepo{q: q}
}

const taxRateColumns = `id, company_id, name, rate, dian_code, created_at, updated_at`

// Create persiste una tarifa.
func (r *TaxRateRepo) Create(t *entity.TaxRate) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO tax_rates (`+taxRateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.CompanyID, t.Name, t.Rate, t.DIANCode, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tax rate: %w", err)
	}
	return nil
}

// GetByID obtiene una tarifa por ID.
func (r *TaxRateRepo) GetByID(id string) (*entity.TaxRate, error) {
	t, err := scanTaxRate(r.q.QueryRow(context.Background(), `SELECT `+taxRateColumns+` FROM tax_rates WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax rate: %w", err)
	}
	return t, nil
}

// ListByCompany lista las tarifas de la empresa ordenadas por porcentaje.
func (r *TaxRateRepo) ListByCompany(companyID string) ([]*entity.TaxRate, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+taxRateColumns+` FROM tax_rates WHERE company_id = $1 ORDER BY rate, name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list tax rates: %w", err)
	}
	defer rows.Close()
	var list []*entity.TaxRate
	for rows.Next() {
		t, err := scanTaxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update actualiza nombre, porcentaje y código DIAN.
func (r *TaxRateRepo) Update(t *entity.TaxRate) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE tax_rates SET name = $2, rate = $3, dian_code = $4, updated_at = $5 WHERE id = $1`,
		t.ID, t.Name, t.Rate, t.DIANCode, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tax rate: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una tarifa; los productos que la referencian quedan sin taxRateId.
func (r *TaxRateRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM tax_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tax rate: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTaxRate(row pgx.Row) (*entity.TaxRate, error) {
	var t entity.TaxRate
	if err := row.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Rate, &t.DIANCode, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
