package common

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/logging"
)

// Mailer sends HTML emails.
type Mailer interface {
	Send(ctx context.Context, to []string, subject string, html string) error
}

// NewMailer returns an SMTP mailer, or a LogMailer when no SMTP host is set.
// logBody lets the LogMailer print message bodies, which carry login links.
func NewMailer(cfg config.MailConfig, logBody bool) Mailer {
	if cfg.SMTPHost == "" {
		logging.Warn("SMTP_HOST not set, emails will only be logged")
		return &LogMailer{LogBody: logBody}
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// SMTPMailer delivers through a single SMTP relay.
type SMTPMailer struct {
	cfg  config.MailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (m *SMTPMailer) Send(ctx context.Context, to []string, subject string, html string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipient for %q", subject)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))

	if err := m.send(addr, auth, m.cfg.From, to, buildMessage(m.cfg.From, to, subject, html)); err != nil {
		return fmt.Errorf("send mail to %s: %w", strings.Join(to, ","), err)
	}
	return nil
}

func buildMessage(from string, to []string, subject string, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

// LogMailer logs instead of sending. Used in development.
type LogMailer struct {
	LogBody bool
}

func (m *LogMailer) Send(_ context.Context, to []string, subject string, html string) error {
	if m.LogBody {
		logging.Info("Mail not sent (no SMTP configured)", "to", to, "subject", subject, "body", html)
		return nil
	}
	logging.Info("Mail not sent (no SMTP configured)", "to", to, "subject", subject)
	return nil
}
