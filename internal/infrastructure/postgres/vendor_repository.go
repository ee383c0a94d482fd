package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

// Asegura que VendorRepo implementa repository.VendorRepository.
var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación del puerto VendorRepository sobre PostgreSQL.
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador de persistencia para emisores.
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

const vendorColumns = `id, company_id, name, nit, address, phone, email, prefix, created_at, updated_at`

// Create persiste un nuevo emisor.
func (r *VendorRepo) Create(v *entity.Vendor) error {
	query := `INSERT INTO vendors (` + vendorColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.CompanyID, v.Name, v.NIT, v.Address, v.Phone, v.Email, v.Prefix, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un emisor por ID.
func (r *VendorRepo) GetByID(id string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(context.Background(), `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// GetByCompanyAndNIT obtiene un emisor por empresa y NIT.
func (r *VendorRepo) GetByCompanyAndNIT(companyID, nit string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(context.Background(),
		`SELECT `+vendorColumns+` FROM vendors WHERE company_id = $1 AND nit = $2`, companyID, nit))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by nit: %w", err)
	}
	return v, nil
}

// ListByCompany lista emisores con paginación.
func (r *VendorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+vendorColumns+` FROM vendors WHERE company_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Update actualiza un emisor existente.
func (r *VendorRepo) Update(v *entity.Vendor) error {
	query := `
		UPDATE vendors SET name = $2, nit = $3, address = $4, phone = $5, email = $6, prefix = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		v.ID, v.Name, v.NIT, v.Address, v.Phone, v.Email, v.Prefix, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update vendor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un emisor. Con facturas asociadas devuelve ErrConflict.
func (r *VendorRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := row.Scan(&v.ID, &v.CompanyID, &v.Name, &v.NIT, &v.Address, &v.Phone, &v.Email,
		&v.Prefix, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
