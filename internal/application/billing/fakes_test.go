package billing_test

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/repository"
)

const (
	companyID  = "11111111-1111-1111-1111-111111111111"
	vendorID   = "22222222-2222-2222-2222-222222222222"
	customerID = "33333333-3333-3333-3333-333333333333"
	productAID = "44444444-4444-4444-4444-44444444444a"
	productBID = "44444444-4444-4444-4444-44444444444b"
)

// ── repositorios en memoria ──────────────────────────────────────────────────

type memCustomers map[string]*entity.Customer

func (m memCustomers) Create(c *entity.Customer) error { m[c.ID] = c; return nil }
func (m memCustomers) GetByID(id string) (*entity.Customer, error) {
	return m[id], nil
}
func (m memCustomers) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	for _, c := range m {
		if c.CompanyID == companyID && c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}
func (m memCustomers) ListByCompany(companyID, vendorID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range m {
		if c.CompanyID == companyID && (vendorID == "" || c.VendorID == vendorID) {
			out = append(out, c)
		}
	}
	return out, nil
}
func (m memCustomers) Update(c *entity.Customer) error { m[c.ID] = c; return nil }
func (m memCustomers) Delete(id string) error           { delete(m, id); return nil }

type memVendors map[string]*entity.Vendor

func (m memVendors) Create(v *entity.Vendor) error { m[v.ID] = v; return nil }
func (m memVendors) GetByID(id string) (*entity.Vendor, error) {
	return m[id], nil
}
func (m memVendors) GetByCompanyAndNIT(companyID, nit string) (*entity.Vendor, error) {
	for _, v := range m {
		if v.CompanyID == companyID && v.NIT == nit {
			return v, nil
		}
	}
	return nil, nil
}
func (m memVendors) ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	for _, v := range m {
		if v.CompanyID == companyID {
			out = append(out, v)
		}
	}
	return out, nil
}
func (m memVendors) Update(v *entity.Vendor) error { m[v.ID] = v; return nil }
func (m memVendors) Delete(id string) error         { delete(m, id); return nil }

type memProducts map[string]*entity.Product

func (m memProducts) Create(p *entity.Product) error { m[p.ID] = p; return nil }
func (m memProducts) GetByID(id string) (*entity.Product, error) {
	return m[id], nil
}
func (m memProducts) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range m {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (m memProducts) Update(p *entity.Product) error { m[p.ID] = p; return nil }
func (m memProducts) ListByCompany(companyID, customerID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m {
		if p.CompanyID == companyID && (customerID == "" || p.CustomerID == customerID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (m memProducts) Search(companyID string, q repository.ProductSearch) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m {
		if p.CompanyID != companyID {
			continue
		}
		if q.CustomerID == "general" && p.CustomerID != "" {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (m memProducts) Delete(id string) error { delete(m, id); return nil }

type memTaxRates map[string]*entity.TaxRate

func (m memTaxRates) Create(t *entity.TaxRate) error { m[t.ID] = t; return nil }
func (m memTaxRates) GetByID(id string) (*entity.TaxRate, error) {
	return m[id], nil
}
func (m memTaxRates) ListByCompany(companyID string) ([]*entity.TaxRate, error) {
	var out []*entity.TaxRate
	for _, t := range m {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, nil
}
func (m memTaxRates) Update(t *entity.TaxRate) error { m[t.ID] = t; return nil }
func (m memTaxRates) Delete(id string) error          { delete(m, id); return nil }

type memInvoices struct {
	byID map[string]*entity.Invoice
	seq  map[string]int64
	err  error
}

func newMemInvoices() *memInvoices {
	return &memInvoices{byID: map[string]*entity.Invoice{}, seq: map[string]int64{}}
}

func (m *memInvoices) Create(inv *entity.Invoice) error {
	if m.err != nil {
		return m.err
	}
	cp := *inv
	cp.Items = append([]entity.InvoiceLineItem(nil), inv.Items...)
	m.byID[inv.ID] = &cp
	return nil
}
func (m *memInvoices) NextNumber(companyID, prefix string) (int64, error) {
	m.seq[companyID+prefix]++
	return m.seq[companyID+prefix], nil
}
func (m *memInvoices) UpdateStatus(inv *entity.Invoice) error {
	cur, ok := m.byID[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = inv.Status
	return nil
}
func (m *memInvoices) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}
func (m *memInvoices) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range m.byID {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type memCertificates map[string]*entity.Certificate

func (m memCertificates) Create(c *entity.Certificate) error { m[c.ID] = c; return nil }
func (m memCertificates) GetByID(id string) (*entity.Certificate, error) {
	return m[id], nil
}
func (m memCertificates) ListByCompany(companyID string) ([]*entity.Certificate, error) {
	var out []*entity.Certificate
	for _, c := range m {
		if c.CompanyID == companyID {
			cp := *c
			cp.P12 = nil
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m memCertificates) LatestByVendor(vendorID string) (*entity.Certificate, error) {
	var latest *entity.Certificate
	for _, c := range m {
		if c.VendorID == vendorID && (latest == nil || c.CreatedAt.After(latest.CreatedAt)) {
			latest = c
		}
	}
	return latest, nil
}

// ── colaboradores ────────────────────────────────────────────────────────────

// fakeTx ejecuta fn con los repos en memoria; no hay rollback real.
type fakeTx struct {
	invoices  *memInvoices
	customers memCustomers
	vendors   memVendors
}

func (f *fakeTx) RunInvoice(ctx context.Context, fn func(
	repository.InvoiceRepository, repository.CustomerRepository, repository.VendorRepository,
) error) error {
	return fn(f.invoices, f.customers, f.vendors)
}

type fakePDF struct {
	calls int
}

func (f *fakePDF) GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, v *entity.Vendor, c *entity.Customer) ([]byte, error) {
	f.calls++
	return []byte("%PDF-" + inv.FullNumber()), nil
}

type fakeMail struct {
	sent []billing.OutgoingMail
}

func (f *fakeMail) Send(ctx context.Context, msg billing.OutgoingMail) (string, error) {
	f.sent = append(f.sent, msg)
	return "/tmp/outbox/" + msg.AttachmentName + ".eml", nil
}

type fakeIssuer struct {
	subject  string
	validity time.Duration
}

func (f *fakeIssuer) Issue(subject string, validity time.Duration) (*billing.IssuedCertificate, error) {
	f.subject, f.validity = subject, validity
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &billing.IssuedCertificate{
		Serial:      "0a1b",
		Fingerprint: "ff00",
		Subject:     subject,
		P12:         []byte{0x30, 0x82},
		NotBefore:   now,
		NotAfter:    now.Add(validity),
	}, nil
}
