package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
	"github.com/jhoicas/facturacion-simulada/internal/application/session"
	"github.com/jhoicas/facturacion-simulada/pkg/jwt"
)

// DraftRouterDeps dependencias del servicio de borradores.
type DraftRouterDeps struct {
	Sessions  *session.Manager
	Drafts    *drafting.Service
	JWTSecret string
}

// DraftRouter registra las rutas del servicio de borradores.
func DraftRouter(app *fiber.App, deps DraftRouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	sessionHandler := NewSessionHandler(deps.Sessions)
	api.Post("/session", sessionHandler.Init)
	api.Get("/session", sessionHandler.Get)
	api.Patch("/session", sessionHandler.SetTheme)
	api.Delete("/session", sessionHandler.Teardown)

	drafts := api.Group("/drafts",
		RequireRole(jwt.RoleAdmin, jwt.RoleFacturador),
		SessionMiddleware(deps.Sessions),
	)
	h := NewDraftHandler(deps.Drafts)
	drafts.Post("/", h.Create)
	drafts.Get("/:id", h.Get)
	drafts.Patch("/:id", h.UpdateHeader)
	drafts.Delete("/:id", h.Delete)

	drafts.Post("/:id/items", h.AddItem)
	drafts.Post("/:id/items/blank", h.AddBlankItem)
	drafts.Patch("/:id/items/:itemId", h.UpdateItem)
	drafts.Delete("/:id/items/:itemId", h.RemoveItem)

	drafts.Get("/:id/products", h.FilterProducts)
	drafts.Post("/:id/products/more", h.RevealMore)
	drafts.Get("/:id/products/search", h.SearchRemote)
	drafts.Post("/:id/catalog/reload", h.ReloadCatalog)
	drafts.Get("/:id/customers", h.Customers)

	drafts.Post("/:id/submit", h.Submit)
}
