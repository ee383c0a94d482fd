package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
)

// DraftHandler edición de borradores de factura.
type DraftHandler struct {
	svc *drafting.Service
}

// NewDraftHandler construye el handler.
func NewDraftHandler(svc *drafting.Service) *DraftHandler {
	return &DraftHandler{svc: svc}
}

// productQuery parámetros del selector de productos.
type productQuery struct {
	Term     string `query:"term"`
	MinPrice string `query:"minPrice"`
	MaxPrice string `query:"maxPrice"`
	Owner    string `query:"owner"`
}

func (q productQuery) filter() invoicing.ProductFilter {
	return invoicing.ProductFilter{Term: q.Term, MinPrice: q.MinPrice, MaxPrice: q.MaxPrice, OwnerScope: q.Owner}
}

// Create POST /api/drafts
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	out, err := h.svc.Create(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// Get GET /api/drafts/:id
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateHeader PATCH /api/drafts/:id
func (h *DraftHandler) UpdateHeader(c *fiber.Ctx) error {
	var in dto.UpdateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpdateHeader(c.Context(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Delete DELETE /api/drafts/:id
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Líneas ────────────────────────────────────────────────────────────────────

// AddItem agrega un producto; si ya está en el borrador no cambia nada.
// POST /api/drafts/:id/items
func (h *DraftHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.AddItem(c.Context(), GetSession(c), c.Params("id"), in.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// AddBlankItem POST /api/drafts/:id/items/blank
func (h *DraftHandler) AddBlankItem(c *fiber.Ctx) error {
	out, err := h.svc.AddBlankItem(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateItem PATCH /api/drafts/:id/items/:itemId {field, value}
func (h *DraftHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpdateItem(c.Context(), GetSession(c), c.Params("id"), c.Params("itemId"), in.Field, string(in.Value))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// RemoveItem DELETE /api/drafts/:id/items/:itemId
func (h *DraftHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.svc.RemoveItem(c.Context(), GetSession(c), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ── Selector de productos ─────────────────────────────────────────────────────

// FilterProducts GET /api/drafts/:id/products?term=&minPrice=&maxPrice=&owner=
func (h *DraftHandler) FilterProducts(c *fiber.Ctx) error {
	var q productQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.svc.FilterProducts(c.Context(), GetSession(c), c.Params("id"), q.filter())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// RevealMore POST /api/drafts/:id/products/more
func (h *DraftHandler) RevealMore(c *fiber.Ctx) error {
	out, err := h.svc.RevealMore(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// SearchRemote GET /api/drafts/:id/products/search?term=
func (h *DraftHandler) SearchRemote(c *fiber.Ctx) error {
	var q productQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.svc.SearchRemote(c.Context(), GetSession(c), c.Params("id"), q.filter())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ReloadCatalog POST /api/drafts/:id/catalog/reload
func (h *DraftHandler) ReloadCatalog(c *fiber.Ctx) error {
	out, err := h.svc.ReloadCatalog(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Customers GET /api/drafts/:id/customers
func (h *DraftHandler) Customers(c *fiber.Ctx) error {
	out, err := h.svc.Customers(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Submit POST /api/drafts/:id/submit
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	out, err := h.svc.Submit(c.Context(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}
