package mail

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
)

func TestOutboxSender_EscribeEML(t *testing.T) {
	dir := t.TempDir()
	s, err := NewOutboxSender("facturas@demo.co", filepath.Join(dir, "outbox"), zerolog.Nop())
	require.NoError(t, err)

	path, err := s.Send(context.Background(), billing.OutgoingMail{
		To:             "cliente@demo.co",
		Subject:        "Factura SETP1",
		Body:           "Adjuntamos su factura.",
		AttachmentName: "factura_SETP1.pdf",
		Attachment:     []byte("%PDF-1.3 prueba"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".eml"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "To: cliente@demo.co")
	assert.Contains(t, content, "Subject: Factura SETP1")
	assert.Contains(t, content, "factura_SETP1.pdf")
	assert.Contains(t, content, "X-Simulated: true")
}

func TestOutboxSender_ContextoCancelado(t *testing.T) {
	s, err := NewOutboxSender("a@b.co", t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Send(ctx, billing.OutgoingMail{To: "x@y.co"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewOutboxSender_DirVacio(t *testing.T) {
	_, err := NewOutboxSender("a@b.co", "", zerolog.Nop())
	assert.Error(t, err)
}
