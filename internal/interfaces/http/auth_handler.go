package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/pkg/jwt"
)

// TokenIssuer parámetros de emisión de tokens de desarrollo.
type TokenIssuer struct {
	Secret     string
	Issuer     string
	ExpMinutes int
	Enabled    bool // false en producción
}

// AuthHandler emisión de tokens (el sistema no gestiona usuarios).
type AuthHandler struct {
	cfg TokenIssuer
}

// NewAuthHandler construye el handler.
func NewAuthHandler(cfg TokenIssuer) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Token emite un JWT para el usuario y empresa indicados.
// POST /api/auth/token
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	if !h.cfg.Enabled {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "emisión de tokens deshabilitada"})
	}
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.UserID == "" || in.CompanyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "userId y companyId son requeridos"})
	}
	role := in.Role
	if role == "" {
		role = jwt.RoleFacturador
	}
	switch role {
	case jwt.RoleAdmin, jwt.RoleFacturador, jwt.RoleConsulta:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol desconocido"})
	}
	tok, err := jwt.Generate(h.cfg.Secret, in.UserID, in.CompanyID, role, h.cfg.Issuer, h.cfg.ExpMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.OK(dto.TokenResponse{Token: tok, ExpiresIn: h.cfg.ExpMinutes * 60}))
}
