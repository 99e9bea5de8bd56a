// Package mailer delivers verification and password reset mail over SMTP.
// Delivery is best effort: the auth flow fires sends in the background and
// only logs failures, so nothing here retries.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"

	"github.com/kinsust/kin-api/internal/auth"
	"github.com/kinsust/kin-api/internal/config"
	"github.com/kinsust/kin-api/internal/logging"
)

// SMTP sends auth.MailMessage payloads through a plain-auth SMTP relay.
type SMTP struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	logger logging.Logger
}

var _ auth.Mailer = (*SMTP)(nil)

func New(cfg config.Config, logger logging.Logger) (*SMTP, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, errors.New("smtp not configured", errors.CategoryConflict).
			WithTextCode("SMTP_NOT_CONFIGURED")
	}

	if logger == nil {
		logger = logging.Nop()
	}

	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	return &SMTP{
		host:   cfg.SMTPHost,
		port:   cfg.SMTPPort,
		user:   cfg.SMTPUser,
		pass:   cfg.SMTPPass,
		from:   from,
		logger: logger.With("component", "mailer"),
	}, nil
}

func (m *SMTP) Send(ctx context.Context, msg auth.MailMessage) error {
	if msg.To == "" {
		return errors.New("mail message missing recipient", errors.CategoryBadInput)
	}

	body := m.render(msg)
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	plain := smtp.PlainAuth("", m.user, m.pass, m.host)

	done := make(chan error, 1)
	go func() {
		if m.port == 465 {
			done <- m.sendTLS(addr, plain, msg.To, body)
			return
		}
		done <- m.send(addr, plain, msg.To, body)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "smtp delivery failed").
				WithMetadata(map[string]any{"to": msg.To})
		}
		m.logger.Debug("mail delivered", "to", msg.To, "subject", msg.Subject)
		return nil
	}
}

func (m *SMTP) send(addr string, plain smtp.Auth, to, body string) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	if err := c.Auth(plain); err != nil {
		return err
	}

	return m.deliver(c, to, body)
}

func (m *SMTP) sendTLS(addr string, plain smtp.Auth, to, body string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Auth(plain); err != nil {
		return err
	}

	return m.deliver(c, to, body)
}

func (m *SMTP) deliver(c *smtp.Client, to, body string) error {
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(body)); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	return c.Quit()
}

func (m *SMTP) render(msg auth.MailMessage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: KIN <%s>\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	if msg.Code != "" {
		fmt.Fprintf(&b, "Your verification code is %s.\r\n", msg.Code)
	}
	if msg.Link != "" {
		fmt.Fprintf(&b, "Or follow this link: %s\r\n", msg.Link)
	}
	b.WriteString("\r\nIf you did not request this, ignore this mail.\r\n")

	return b.String()
}

// Noop discards every message. Used when SMTP is not configured and in tests.
type Noop struct {
	logger logging.Logger
}

var _ auth.Mailer = (*Noop)(nil)

func NewNoop(logger logging.Logger) *Noop {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Noop{logger: logger.With("component", "mailer")}
}

func (m *Noop) Send(_ context.Context, msg auth.MailMessage) error {
	m.logger.Info("mail suppressed", "to", msg.To, "subject", msg.Subject, "code", msg.Code)
	return nil
}
