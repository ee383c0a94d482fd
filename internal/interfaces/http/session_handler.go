package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/application/session"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
)

// LocalSession key de la sesión explícita en c.Locals.
const LocalSession = "session"

// SessionMiddleware convierte los claims del JWT en una session.Session. Si no existe
// la crea; si existe actualiza el token. Debe ir después de AuthMiddleware.
func SessionMiddleware(mgr *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, companyID := GetUserID(c), GetCompanyID(c)
		sess, ok := mgr.Touch(userID, companyID, GetToken(c))
		if !ok {
			var err error
			sess, err = mgr.Init(userID, companyID, GetRole(c), GetToken(c), "")
			if err != nil {
				return writeError(c, err)
			}
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// GetSession devuelve la sesión cargada por SessionMiddleware.
func GetSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(LocalSession).(*session.Session)
	return sess
}

// SessionHandler inicio y cierre explícitos de la sesión.
type SessionHandler struct {
	mgr *session.Manager
}

// NewSessionHandler construye el handler.
func NewSessionHandler(mgr *session.Manager) *SessionHandler {
	return &SessionHandler{mgr: mgr}
}

// Init inicia (o reinicia) la sesión del token con el tema indicado.
// POST /api/session
func (h *SessionHandler) Init(c *fiber.Ctx) error {
	var in dto.SessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	var theme session.Theme
	if in.Theme != "" {
		t, err := session.ParseTheme(in.Theme)
		if err != nil {
			return writeError(c, err)
		}
		theme = t
	}
	sess, err := h.mgr.Init(GetUserID(c), GetCompanyID(c), GetRole(c), GetToken(c), theme)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(sessionResponse(sess)))
}

// Get GET /api/session
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	sess, ok := h.mgr.Get(GetUserID(c), GetCompanyID(c))
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(dto.OK(sessionResponse(sess)))
}

// SetTheme PATCH /api/session {theme}
func (h *SessionHandler) SetTheme(c *fiber.Ctx) error {
	var in dto.SessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Theme == "" {
		return writeError(c, fmt.Errorf("%w: theme requerido", domain.ErrInvalidInput))
	}
	theme, err := session.ParseTheme(in.Theme)
	if err != nil {
		return writeError(c, err)
	}
	sess, err := h.mgr.SetTheme(GetUserID(c), GetCompanyID(c), theme)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(sessionResponse(sess)))
}

// Teardown cierra la sesión y descarta sus borradores.
// DELETE /api/session
func (h *SessionHandler) Teardown(c *fiber.Ctx) error {
	h.mgr.Teardown(GetUserID(c), GetCompanyID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func sessionResponse(s *session.Session) dto.SessionResponse {
	return dto.SessionResponse{
		UserID:    s.UserID,
		CompanyID: s.CompanyID,
		Role:      s.Role,
		Theme:     string(s.Theme),
	}
}
