package dto

import (
	"github.com/shopspring/decimal"
)

// TotalsResponse totales recalculados del borrador.
type TotalsResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxTotal decimal.Decimal `json:"taxTotal"`
	Total    decimal.Decimal `json:"total"`
}

// DraftResponse estado completo de un borrador.
type DraftResponse struct {
	ID           string           `json:"id"`
	CustomerID   string           `json:"customerId"`
	VendorID     string           `json:"vendorId"`
	Date         string           `json:"date"`
	DueDate      string           `json:"dueDate,omitempty"`
	Notes        string           `json:"notes"`
	Items        []LineItem       `json:"items"`
	Totals       TotalsResponse   `json:"totals"`
	CatalogError bool             `json:"catalogError"`
	Invoice      *InvoiceResponse `json:"invoice,omitempty"` // factura creada tras enviar
}

// UpdateDraftRequest body de PATCH /api/drafts/:id. Campos nil no cambian.
type UpdateDraftRequest struct {
	CustomerID *string `json:"customerId"`
	VendorID   *string `json:"vendorId"`
	Date       *string `json:"date"`
	DueDate    *string `json:"dueDate"`
	Notes      *string `json:"notes"`
}

// AddItemRequest body de POST /api/drafts/:id/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// UpdateItemRequest body de PATCH /api/drafts/:id/items/:itemId.
type UpdateItemRequest struct {
	Field string    `json:"field"`
	Value FormValue `json:"value"`
}

// ProductPageResponse página visible del selector de productos.
type ProductPageResponse struct {
	Products     []ProductResponse `json:"products"`
	Visible      int               `json:"visible"`
	Total        int               `json:"total"`
	HasMore      bool              `json:"hasMore"`
	CatalogError bool              `json:"catalogError"`
}

// SessionResponse contexto de sesión activo.
type SessionResponse struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
	Theme     string `json:"theme"`
}

// SessionRequest body opcional de POST /api/session.
type SessionRequest struct {
	Theme string `json:"theme,omitempty"` // light | dark
}
