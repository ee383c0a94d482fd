package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

var _ repository.CertificateRepository = (*CertificateRepo)(nil)

// CertificateRepo persistencia de certificados simulados.
type CertificateRepo struct {
	q Querier
}

// NewCertificateRepository construye el adaptador.
func NewCertificateRepository(q Querier) *CertificateRepo {
	return &CertificateRepo{q: q}
}

// Create persiste el certificado con su contenido PKCS#12.
func (r *CertificateRepo) Create(c *entity.Certificate) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO certificates (id, company_id, vendor_id, subject, serial, fingerprint, not_before, not_after, p12, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.CompanyID, c.VendorID, c.Subject, c.Serial, c.Fingerprint, c.NotBefore, c.NotAfter, c.P12, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

// GetByID obtiene un certificado con su P12.
func (r *CertificateRepo) GetByID(id string) (*entity.Certificate, error) {
	var c entity.Certificate
	err := r.q.QueryRow(context.Background(), `
		SELECT id, company_id, vendor_id, subject, serial, fingerprint, not_before, not_after, p12, created_at
		FROM certificates WHERE id = $1`, id).Scan(
		&c.ID, &c.CompanyID, &c.VendorID, &c.Subject, &c.Serial, &c.Fingerprint, &c.NotBefore, &c.NotAfter, &c.P12, &c.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return &c, nil
}

// ListByCompany lista los certificados sin cargar el P12.
func (r *CertificateRepo) ListByCompany(companyID string) ([]*entity.Certificate, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, company_id, vendor_id, subject, serial, fingerprint, not_before, not_after, created_at
		FROM certificates WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Certificate
	for rows.Next() {
		var c entity.Certificate
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.VendorID, &c.Subject, &c.Serial, &c.Fingerprint,
			&c.NotBefore, &c.NotAfter, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// LatestByVendor certificado más reciente del emisor.
func (r *CertificateRepo) LatestByVendor(vendorID string) (*entity.Certificate, error) {
	var c entity.Certificate
	err := r.q.QueryRow(context.Background(), `
		SELECT id, company_id, vendor_id, subject, serial, fingerprint, not_before, not_after, p12, created_at
		FROM certificates WHERE vendor_id = $1 ORDER BY created_at DESC LIMIT 1`, vendorID).Scan(
		&c.ID, &c.CompanyID, &c.VendorID, &c.Subject, &c.Serial, &c.Fingerprint, &c.NotBefore, &c.NotAfter, &c.P12, &c.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest certificate: %w", err)
	}
	return &c, nil
}
