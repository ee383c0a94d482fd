// Package drafting casos de uso del servicio de borradores: catálogo por borrador,
// edición de líneas con totales recalculados, búsqueda con debounce y envío a la API.
package drafting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/application/session"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

// Service orquesta borradores sobre el núcleo de facturación.
type Service struct {
	store    *Store
	loader   *Loader
	debounce *Debouncer
	sources  SourceFactory
	pageSize int
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService pageSize <= 0 usa invoicing.DefaultPageSize.
func NewService(store *Store, loader *Loader, debounce *Debouncer, sources SourceFactory, pageSize int, log zerolog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = invoicing.DefaultPageSize
	}
	return &Service{
		store:    store,
		loader:   loader,
		debounce: debounce,
		sources:  sources,
		pageSize: pageSize,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// WithClock reemplaza el reloj (pruebas).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DropSession descarta los borradores de la sesión. Se registra como hook de teardown.
func (s *Service) DropSession(sess *session.Session) {
	ids := s.store.DeleteBySession(sess.Key())
	for _, id := range ids {
		s.debounce.Forget(id)
	}
	if len(ids) > 0 {
		s.log.Info().Str("session", sess.Key()).Int("drafts", len(ids)).Msg("borradores descartados")
	}
}

// ── Borrador ──────────────────────────────────────────────────────────────────

// Create abre un borrador con fecha de hoy y carga el catálogo general.
func (s *Service) Create(ctx context.Context, sess *session.Session) (*dto.DraftResponse, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	d := newDraft(s.newID(), sess.Key(), sess.CompanyID, today, s.pageSize)
	s.store.Put(d)
	s.refreshCatalog(ctx, sess, d, false)

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view(), nil
}

// Get estado actual del borrador.
func (s *Service) Get(_ context.Context, sess *session.Session, id string) (*dto.DraftResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view(), nil
}

// Delete descarta el borrador.
func (s *Service) Delete(_ context.Context, sess *session.Session, id string) error {
	if _, err := s.draft(sess, id); err != nil {
		return err
	}
	s.store.Delete(id)
	s.debounce.Forget(id)
	return nil
}

// UpdateHeader cambia la cabecera. Un cambio de cliente recarga el catálogo de ese alcance.
func (s *Service) UpdateHeader(ctx context.Context, sess *session.Session, id string, in dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	date, dueDate := d.Date, d.DueDate
	if in.Date != nil {
		if date, err = parseDate(*in.Date); err != nil {
			d.mu.Unlock()
			return nil, err
		}
	}
	if in.DueDate != nil {
		if strings.TrimSpace(*in.DueDate) == "" {
			dueDate = nil
		} else {
			due, err := parseDate(*in.DueDate)
			if err != nil {
				d.mu.Unlock()
				return nil, err
			}
			dueDate = &due
		}
	}
	if dueDate != nil && dueDate.Before(date) {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: la fecha de vencimiento es anterior a la fecha", domain.ErrInvalidInput)
	}
	d.Date, d.DueDate = date, dueDate

	scopeChanged := false
	if in.CustomerID != nil {
		customer := strings.TrimSpace(*in.CustomerID)
		scopeChanged = customer != d.CustomerID
		d.CustomerID = customer
	}
	if in.VendorID != nil {
		d.VendorID = strings.TrimSpace(*in.VendorID)
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	d.mu.Unlock()

	if scopeChanged {
		s.refreshCatalog(ctx, sess, d, false)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view(), nil
}

// ReloadCatalog recarga el catálogo ignorando el caché (reintento tras un error).
func (s *Service) ReloadCatalog(ctx context.Context, sess *session.Session, id string) (*dto.ProductPageResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	s.refreshCatalog(ctx, sess, d, true)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page(), nil
}

// Customers clientes cargados junto con el catálogo.
func (s *Service) Customers(_ context.Context, sess *session.Session, id string) ([]dto.CustomerResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]dto.CustomerResponse, 0, len(d.customers))
	for i := range d.customers {
		out = append(out, dto.NewCustomerResponse(&d.customers[i]))
	}
	return out, nil
}

// ── Líneas ────────────────────────────────────────────────────────────────────

// AddItem agrega el producto. Repetir el mismo producto no crea otra línea.
func (s *Service) AddItem(ctx context.Context, sess *session.Session, id, productID string) (*dto.DraftResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	_, inCatalog := d.catalog.Find(productID)
	before := len(d.Items)
	items, err := s.resolver(sess).Add(ctx, productID, d.Items, d.catalog, d.CustomerID)
	if err != nil {
		return nil, err
	}
	d.Items = items
	if len(items) > before {
		source := "catalog"
		if !inCatalog {
			source = "remote"
		}
		metrics.LineItemsAdded.WithLabelValues(source).Inc()
	}
	return d.view(), nil
}

// AddBlankItem agrega una línea libre.
func (s *Service) AddBlankItem(ctx context.Context, sess *session.Session, id string) (*dto.DraftResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Items = s.resolver(sess).AddBlank(ctx, d.Items, d.CustomerID)
	metrics.LineItemsAdded.WithLabelValues("blank").Inc()
	return d.view(), nil
}

// UpdateItem cambia un campo de la línea. Una línea inexistente no es error.
func (s *Service) UpdateItem(ctx context.Context, sess *session.Session, id, itemID, field, value string) (*dto.DraftResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	items, err := s.resolver(sess).Update(ctx, itemID, invoicing.LineUpdate{
		Field: invoicing.LineField(field),
		Value: value,
	}, d.Items, d.catalog)
	if err != nil {
		return nil, err
	}
	d.Items = items
	return d.view(), nil
}

// RemoveItem quita la línea; no-op si no existe.
func (s *Service) RemoveItem(_ context.Context, sess *session.Session, id, itemID string) (*dto.DraftResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Items = invoicing.Remove(itemID, d.Items)
	return d.view(), nil
}

// ── Selector de productos ─────────────────────────────────────────────────────

// FilterProducts filtra el catálogo local y vuelve a la primera página.
func (s *Service) FilterProducts(_ context.Context, sess *session.Session, id string, f invoicing.ProductFilter) (*dto.ProductPageResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	if f.OwnerScope == "" {
		f.OwnerScope = invoicing.OwnerAll
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter.Apply(f, d.catalog.Products())
	return d.page(), nil
}

// RevealMore muestra la siguiente página de resultados.
func (s *Service) RevealMore(_ context.Context, sess *session.Session, id string) (*dto.ProductPageResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter.RevealMore()
	return d.page(), nil
}

// SearchRemote búsqueda en la API con debounce por borrador. Los resultados se
// incorporan al catálogo local. Una llamada reemplazada devuelve ErrSearchSuperseded.
func (s *Service) SearchRemote(ctx context.Context, sess *session.Session, id string, f invoicing.ProductFilter) (*dto.ProductPageResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	if f.OwnerScope == "" {
		f.OwnerScope = invoicing.OwnerAll
	}

	var page *dto.ProductPageResponse
	err = s.debounce.Do(ctx, id, func(ctx context.Context) error {
		d.mu.Lock()
		q := dto.ProductSearchQuery{Term: f.Term, CustomerID: d.CustomerID, MinPrice: f.MinPrice, MaxPrice: f.MaxPrice}
		d.mu.Unlock()

		products, err := s.sources(sess.Token).SearchProducts(ctx, q)

		d.mu.Lock()
		defer d.mu.Unlock()
		if err != nil {
			s.log.Warn().Err(err).Str("draft_id", id).Msg("búsqueda remota fallida")
			d.catalogErr = true
			d.filter.Apply(f, nil)
			page = d.page()
			return nil
		}
		d.catalogErr = false
		for _, p := range products {
			d.catalog.Merge(p)
		}
		d.filter.Apply(f, products)
		page = d.page()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ── Envío ─────────────────────────────────────────────────────────────────────

// Submit valida (cliente, vendedor, líneas) y crea la factura en la API.
// Si falla, el borrador queda intacto. Si sale bien, se vacían las líneas y se
// adjunta la factura creada.
func (s *Service) Submit(ctx context.Context, sess *session.Session, id string) (*dto.DraftResponse, error) {
	d, err := s.draft(sess, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := validateForSubmit(d); err != nil {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	req := dto.CreateInvoiceRequest{
		InvoiceData: dto.InvoiceData{
			CustomerID: d.CustomerID,
			VendorID:   d.VendorID,
			Date:       d.Date.Format(dto.DateLayout),
			Notes:      d.Notes,
		},
		Items: dto.NewLineItems(d.Items),
	}
	if d.DueDate != nil {
		req.InvoiceData.DueDate = d.DueDate.Format(dto.DateLayout)
	}

	inv, err := s.sources(sess.Token).CreateInvoice(ctx, req)
	if err != nil {
		metrics.Submissions.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("draft_id", id).Msg("envío de factura fallido")
		if !errors.Is(err, domain.ErrSubmissionFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
		}
		return nil, err
	}

	metrics.Submissions.WithLabelValues("ok").Inc()
	s.log.Info().Str("draft_id", id).Str("invoice_id", inv.ID).Str("number", inv.Prefix+inv.Number).Msg("factura enviada")
	d.invoice = inv
	d.Items = nil
	d.Notes = ""
	d.DueDate = nil
	return d.view(), nil
}

func validateForSubmit(d *Draft) error {
	switch {
	case d.CustomerID == "":
		return &domain.SubmissionValidationError{Field: domain.FieldCustomer}
	case d.VendorID == "":
		return &domain.SubmissionValidationError{Field: domain.FieldVendor}
	case len(d.Items) == 0:
		return &domain.SubmissionValidationError{Field: domain.FieldItems}
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// draft busca el borrador de la sesión. Uno ajeno se reporta como inexistente.
func (s *Service) draft(sess *session.Session, id string) (*Draft, error) {
	d, ok := s.store.Get(id)
	if !ok || d.SessionKey != sess.Key() {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (s *Service) resolver(sess *session.Session) *invoicing.Resolver {
	src := s.sources(sess.Token)
	return invoicing.NewResolver(src, countingLookup{inner: src}, src, s.log)
}

// refreshCatalog pide el catálogo del alcance actual del borrador. Si mientras tanto
// se pidió otra carga, la respuesta vieja se descarta.
func (s *Service) refreshCatalog(ctx context.Context, sess *session.Session, d *Draft, force bool) {
	d.mu.Lock()
	d.loadGen++
	gen := d.loadGen
	scope := d.scope()
	d.mu.Unlock()

	snap, err := s.loader.Load(ctx, s.sources(sess.Token), scope, force)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.loadGen {
		metrics.CatalogLoads.WithLabelValues("stale").Inc()
		s.log.Debug().Str("draft_id", d.ID).Uint64("gen", gen).Msg("respuesta de catálogo obsoleta descartada")
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Str("draft_id", d.ID).Str("scope", scope.Key()).Msg("catálogo no disponible")
		d.catalogErr = true
		d.catalog = invoicing.NewCatalog(nil)
		d.customers = nil
	} else {
		d.catalogErr = false
		d.catalog = invoicing.NewCatalog(snap.Products)
		d.customers = append([]entity.Customer(nil), snap.Customers...)
	}
	d.filter.Apply(d.filter.Filter, d.catalog.Products())
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (use AAAA-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}
