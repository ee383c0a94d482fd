// Package mail entrega simulada de correos: el mensaje MIME se escribe en un
// directorio outbox como archivo .eml y nunca sale a la red.
package mail

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/facturacion-simulada/internal/application/billing"
)

var _ billing.MailSender = (*OutboxSender)(nil)

// OutboxSender compone el correo con gomail y lo guarda en Dir.
type OutboxSender struct {
	from string
	dir  string
	log  zerolog.Logger
	now  func() time.Time
}

// NewOutboxSender crea el directorio si no existe.
func NewOutboxSender(from, dir string, log zerolog.Logger) (*OutboxSender, error) {
	if dir == "" {
		return nil, fmt.Errorf("mail: directorio outbox vacío")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mail: crear outbox: %w", err)
	}
	return &OutboxSender{from: from, dir: dir, log: log, now: time.Now}, nil
}

// Send escribe el mensaje y devuelve la ruta del .eml.
func (s *OutboxSender) Send(ctx context.Context, msg billing.OutgoingMail) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("X-Simulated", "true")
	m.SetDateHeader("Date", s.now())
	m.SetBody("text/plain", msg.Body)
	if len(msg.Attachment) > 0 {
		data := msg.Attachment
		m.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	path := filepath.Join(s.dir, s.now().UTC().Format("20060102T150405")+"_"+uuid.NewString()+".eml")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("mail: crear mensaje: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("mail: escribir mensaje: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("mail: cerrar mensaje: %w", err)
	}

	s.log.Info().Str("to", msg.To).Str("path", path).Msg("correo simulado escrito en outbox")
	return path, nil
}
