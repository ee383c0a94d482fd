package session_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/application/session"
	"github.com/jhoicas/facturacion-simulada/internal/domain"
)

func TestManager_InitGetTeardown(t *testing.T) {
	m := session.NewManager(zerolog.Nop())
	var closed []string
	m.OnTeardown(func(s *session.Session) { closed = append(closed, s.Key()) })

	s, err := m.Init("u1", "c1", "facturador", "tok", "")
	require.NoError(t, err)
	assert.Equal(t, session.ThemeLight, s.Theme)
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get("u1", "c1")
	require.True(t, ok)
	assert.Equal(t, "tok", got.Token)

	assert.True(t, m.Teardown("u1", "c1"))
	assert.Equal(t, []string{session.Key("u1", "c1")}, closed)
	assert.False(t, m.Teardown("u1", "c1"))
	_, ok = m.Get("u1", "c1")
	assert.False(t, ok)
}

func TestManager_InitConservaTema(t *testing.T) {
	m := session.NewManager(zerolog.Nop())
	_, err := m.Init("u1", "c1", "admin", "t1", session.ThemeDark)
	require.NoError(t, err)

	s, err := m.Init("u1", "c1", "admin", "t2", "")
	require.NoError(t, err)
	assert.Equal(t, session.ThemeDark, s.Theme)
	assert.Equal(t, "t2", s.Token)
}

func TestManager_InitSinUsuario(t *testing.T) {
	m := session.NewManager(zerolog.Nop())
	_, err := m.Init("", "c1", "admin", "t", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestManager_SetThemeYTouch(t *testing.T) {
	m := session.NewManager(zerolog.Nop())
	_, err := m.SetTheme("u1", "c1", session.ThemeDark)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _ = m.Init("u1", "c1", "admin", "t1", "")
	s, err := m.SetTheme("u1", "c1", session.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, session.ThemeDark, s.Theme)

	s, ok := m.Touch("u1", "c1", "t9")
	require.True(t, ok)
	assert.Equal(t, "t9", s.Token)
}

func TestParseTheme(t *testing.T) {
	th, err := session.ParseTheme(" DARK ")
	require.NoError(t, err)
	assert.Equal(t, session.ThemeDark, th)

	th, err = session.ParseTheme("")
	require.NoError(t, err)
	assert.Equal(t, session.ThemeLight, th)

	_, err = session.ParseTheme("azul")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
