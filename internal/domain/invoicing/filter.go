package invoicing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// Alcances de dueño del selector de productos. Cualquier otro valor es un ID de cliente/vendedor.
const (
	OwnerAll     = "all"
	OwnerGeneral = "general"
)

// DefaultPageSize productos visibles por página en el selector.
const DefaultPageSize = 5

// ProductFilter criterios del selector. Los precios llegan como texto del formulario.
type ProductFilter struct {
	Term       string
	MinPrice   string
	MaxPrice   string
	OwnerScope string
}

// ApplyFilters filtra products sin alterar su orden. Siempre parte de la lista completa
// que recibe: los filtros no se acumulan entre llamadas.
func ApplyFilters(f ProductFilter, products []entity.Product) []entity.Product {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(f.Term))
	minPrice, hasMin := parseBound(f.MinPrice)
	maxPrice, hasMax := parseBound(f.MaxPrice)

	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if !matchesOwner(f.OwnerScope, &p) {
			continue
		}
		if term != "" &&
			!strings.Contains(fold.String(p.Name), term) &&
			!strings.Contains(fold.String(p.Description), term) {
			continue
		}
		if hasMin && p.Price.LessThan(minPrice) {
			continue
		}
		if hasMax && p.Price.GreaterThan(maxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesOwner(scope string, p *entity.Product) bool {
	switch scope {
	case "", OwnerAll:
		return true
	case OwnerGeneral:
		return p.IsGeneral()
	default:
		return p.CustomerID == scope
	}
}

// parseBound interpreta un límite de precio; vacío o inválido no restringe.
func parseBound(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Pager controla cuántos resultados filtrados se muestran ("cargar más").
type Pager struct {
	PageSize int
	Visible  int
}

// NewPager construye un paginador; size <= 0 usa DefaultPageSize.
func NewPager(size int) Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pager{PageSize: size, Visible: size}
}

// Reset vuelve a la primera página, sin pasar de total.
func (p *Pager) Reset(total int) {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	p.Visible = min(p.PageSize, max(total, 0))
}

// Reveal amplía la parte visible en una página y devuelve cuántos quedan visibles,
// nunca más que total.
func (p *Pager) Reveal(total int) int {
	p.Visible = max(min(p.Visible+p.PageSize, total), 0)
	return p.Visible
}

// HasMore indica si quedan resultados ocultos.
func (p *Pager) HasMore(total int) bool {
	return p.Visible < total
}

// Page devuelve el prefijo visible de list.
func (p *Pager) Page(list []entity.Product) []entity.Product {
	n := p.Visible
	if n > len(list) {
		n = len(list)
	}
	if n < 0 {
		n = 0
	}
	return list[:n]
}

// FilterState filtro activo, resultados y paginación de un selector.
type FilterState struct {
	Filter  ProductFilter
	Pager   Pager
	Results []entity.Product
}

// NewFilterState construye el estado con el tamaño de página indicado.
func NewFilterState(pageSize int) *FilterState {
	return &FilterState{Filter: ProductFilter{OwnerScope: OwnerAll}, Pager: NewPager(pageSize)}
}

// Apply recalcula los resultados desde source y reinicia la paginación.
func (s *FilterState) Apply(f ProductFilter, source []entity.Product) []entity.Product {
	s.Filter = f
	s.Results = ApplyFilters(f, source)
	s.Pager.Reset(len(s.Results))
	return s.Visible()
}

// RevealMore muestra la siguiente página.
func (s *FilterState) RevealMore() []entity.Product {
	s.Pager.Reveal(len(s.Results))
	return s.Visible()
}

// Visible resultados actualmente visibles.
func (s *FilterState) Visible() []entity.Product {
	return s.Pager.Page(s.Results)
}

// HasMore indica si hay más resultados por mostrar.
func (s *FilterState) HasMore() bool {
	return s.Pager.HasMore(len(s.Results))
}
