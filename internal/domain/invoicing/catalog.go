package invoicing

import "github.com/jhoicas/facturacion-simulada/internal/domain/entity"

// Catalog lista ordenada de productos cargados, con índice por ID.
// No es seguro para uso concurrente; el dueño (un borrador) lo protege.
type Catalog struct {
	products []entity.Product
	index    map[string]int
}

// NewCatalog construye el catálogo copiando products. Ante IDs repetidos gana el último.
func NewCatalog(products []entity.Product) *Catalog {
	c := &Catalog{index: make(map[string]int, len(products))}
	for _, p := range products {
		c.Merge(p)
	}
	return c
}

// Find busca un producto por ID y devuelve una copia.
func (c *Catalog) Find(id string) (*entity.Product, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	p := c.products[i]
	return &p, true
}

// Merge agrega el producto al final o reemplaza el existente en su posición.
func (c *Catalog) Merge(p entity.Product) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[p.ID]; ok {
		c.products[i] = p
		return
	}
	c.index[p.ID] = len(c.products)
	c.products = append(c.products, p)
}

// Products devuelve una copia de los productos en orden de carga.
func (c *Catalog) Products() []entity.Product {
	if c == nil {
		return nil
	}
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len cantidad de productos.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}
