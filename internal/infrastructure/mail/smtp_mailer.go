// Package mail implementa ports.Mailer sobre SMTP (gomail) o sobre el log.
package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/tienda-api/pkg/config"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía correos HTML por SMTP.
type SMTPMailer struct {
	dialer   sender
	from     string
	fromName string
	log      zerolog.Logger
}

// NewSMTPMailer construye el mailer con las credenciales de cfg.
func NewSMTPMailer(cfg config.MailConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		log:      log,
	}
}

// Send arma el mensaje y lo entrega. gomail no acepta contexto: sólo se respeta
// una cancelación previa al envío.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("to", to).Msg("envío SMTP falló")
		return fmt.Errorf("mail: enviar a %s: %w", to, err)
	}
	m.log.Debug().Str("to", to).Str("subject", subject).Msg("correo enviado")
	return nil
}

// LogMailer no envía nada: registra el correo. Para desarrollo sin SMTP.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer construye el mailer de log.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send registra destinatario, asunto y cuerpo.
func (m *LogMailer) Send(_ context.Context, to, subject, html string) error {
	m.log.Info().Str("to", to).Str("subject", subject).Str("html", html).Msg("correo (sin SMTP)")
	return nil
}
