package drafting

import (
	"sync"
	"time"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

// Draft factura en edición. mu serializa todas las operaciones sobre el borrador,
// incluido el chequeo de producto duplicado.
type Draft struct {
	mu sync.Mutex

	ID         string
	SessionKey string
	CompanyID  string

	CustomerID string
	VendorID   string
	Date       time.Time
	DueDate    *time.Time
	Notes      string
	Items      []entity.InvoiceLineItem

	catalog    *invoicing.Catalog
	customers  []entity.Customer
	filter     *invoicing.FilterState
	loadGen    uint64
	catalogErr bool
	invoice    *dto.InvoiceResponse
}

func newDraft(id, sessionKey, companyID string, today time.Time, pageSize int) *Draft {
	return &Draft{
		ID:         id,
		SessionKey: sessionKey,
		CompanyID:  companyID,
		Date:       today,
		catalog:    invoicing.NewCatalog(nil),
		filter:     invoicing.NewFilterState(pageSize),
	}
}

func (d *Draft) scope() Scope {
	return Scope{CompanyID: d.CompanyID, CustomerID: d.CustomerID}
}

// view arma la respuesta con los totales recalculados. Requiere d.mu.
func (d *Draft) view() *dto.DraftResponse {
	totals := invoicing.ComputeTotals(d.Items)
	resp := &dto.DraftResponse{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		VendorID:   d.VendorID,
		Date:       d.Date.Format(dto.DateLayout),
		Notes:      d.Notes,
		Items:      dto.NewLineItems(d.Items),
		Totals: dto.TotalsResponse{
			Subtotal: totals.Subtotal,
			TaxTotal: totals.TaxTotal,
			Total:    totals.Total,
		},
		CatalogError: d.catalogErr,
		Invoice:      d.invoice,
	}
	if d.DueDate != nil {
		resp.DueDate = d.DueDate.Format(dto.DateLayout)
	}
	return resp
}

// page arma la página visible del selector. Requiere d.mu.
func (d *Draft) page() *dto.ProductPageResponse {
	visible := d.filter.Visible()
	out := make([]dto.ProductResponse, 0, len(visible))
	for i := range visible {
		out = append(out, dto.NewProductResponse(&visible[i]))
	}
	return &dto.ProductPageResponse{
		Products:     out,
		Visible:      len(visible),
		Total:        len(d.filter.Results),
		HasMore:      d.filter.HasMore(),
		CatalogError: d.catalogErr,
	}
}

// Store borradores en memoria.
type Store struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{drafts: make(map[string]*Draft)}
}

// Put agrega o reemplaza un borrador.
func (s *Store) Put(d *Draft) {
	s.mu.Lock()
	s.drafts[d.ID] = d
	metrics.ActiveDrafts.Set(float64(len(s.drafts)))
	s.mu.Unlock()
}

// Get busca por ID.
func (s *Store) Get(id string) (*Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	return d, ok
}

// Delete elimina un borrador. false si no existía.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return false
	}
	delete(s.drafts, id)
	metrics.ActiveDrafts.Set(float64(len(s.drafts)))
	return true
}

// DeleteBySession elimina los borradores de una sesión y devuelve sus IDs.
func (s *Store) DeleteBySession(sessionKey string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, d := range s.drafts {
		if d.SessionKey == sessionKey {
			ids = append(ids, id)
			delete(s.drafts, id)
		}
	}
	metrics.ActiveDrafts.Set(float64(len(s.drafts)))
	return ids
}

// Len cantidad de borradores.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
