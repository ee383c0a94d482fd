// Package session contexto explícito de sesión del servicio de borradores:
// usuario, empresa, rol, token y tema. Se inicia al entrar y se desmonta al salir;
// el desmontaje avisa a los suscriptores (p. ej. descartar borradores).
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
)

// Theme preferencia visual del usuario.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme vacío = claro; otro valor no reconocido es ErrInvalidInput.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: tema %q", domain.ErrInvalidInput, s)
	}
}

// Session contexto de un usuario autenticado.
type Session struct {
	UserID    string
	CompanyID string
	Role      string
	Token     string
	Theme     Theme
	StartedAt time.Time
}

// Key identifica la sesión (usuario dentro de su empresa).
func (s *Session) Key() string {
	return Key(s.UserID, s.CompanyID)
}

// Key clave de sesión para un usuario y empresa.
func Key(userID, companyID string) string {
	return companyID + "/" + userID
}

// TeardownFunc se ejecuta al cerrar una sesión.
type TeardownFunc func(s *Session)

// Manager registro en memoria de sesiones activas.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	hooks    []TeardownFunc
	log      zerolog.Logger
	now      func() time.Time
}

// NewManager construye el registro.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{sessions: make(map[string]*Session), log: log, now: time.Now}
}

// OnTeardown registra un suscriptor del cierre de sesión.
func (m *Manager) OnTeardown(fn TeardownFunc) {
	m.mu.Lock()
	m.hooks = append(m.hooks, fn)
	m.mu.Unlock()
}

// Init crea o renueva la sesión. Un Init repetido conserva el tema previo si theme es vacío.
func (m *Manager) Init(userID, companyID, role, token string, theme Theme) (*Session, error) {
	if userID == "" || companyID == "" {
		return nil, domain.ErrUnauthorized
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key(userID, companyID)
	if prev, ok := m.sessions[key]; ok && theme == "" {
		theme = prev.Theme
	}
	if theme == "" {
		theme = ThemeLight
	}
	s := &Session{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		Token:     token,
		Theme:     theme,
		StartedAt: m.now(),
	}
	m.sessions[key] = s
	m.log.Info().Str("user_id", userID).Str("company_id", companyID).Msg("sesión iniciada")
	cp := *s
	return &cp, nil
}

// Get devuelve una copia de la sesión activa.
func (m *Manager) Get(userID, companyID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[Key(userID, companyID)]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}

// Touch actualiza el token de una sesión existente (el JWT se renueva en cada request).
func (m *Manager) Touch(userID, companyID, token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[Key(userID, companyID)]
	if !ok {
		return nil, false
	}
	if token != "" {
		s.Token = token
	}
	cp := *s
	return &cp, true
}

// SetTheme cambia el tema de una sesión activa.
func (m *Manager) SetTheme(userID, companyID string, theme Theme) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[Key(userID, companyID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Theme = theme
	cp := *s
	return &cp, nil
}

// Teardown cierra la sesión y ejecuta los suscriptores. Devuelve false si no existía.
func (m *Manager) Teardown(userID, companyID string) bool {
	m.mu.Lock()
	key := Key(userID, companyID)
	s, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	hooks := append([]TeardownFunc(nil), m.hooks...)
	m.mu.Unlock()
	if !ok {
		return false
	}
	for _, fn := range hooks {
		fn(s)
	}
	m.log.Info().Str("user_id", userID).Str("company_id", companyID).Msg("sesión cerrada")
	return true
}

// Len sesiones activas.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
