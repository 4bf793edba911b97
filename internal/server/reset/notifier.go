package reset

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// LogNotifier writes reset links to the log. Used when no SMTP relay is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyReset logs the link
func (n *LogNotifier) NotifyReset(ctx context.Context, email, link string) error {
	n.logger.InfoContext(ctx, "password reset link", "email", email, "link", link)
	return nil
}

// SMTPConfig describes the outgoing mail relay
type SMTPConfig struct {
	Host     string
	Username string
	Password string
	From     string
	Port     int
}

// SMTPNotifier sends reset links by mail
type SMTPNotifier struct {
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	cfg  SMTPConfig
}

// NewSMTPNotifier creates a mail notifier
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// NotifyReset mails the link to email
func (n *SMTPNotifier) NotifyReset(ctx context.Context, email, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, []string{email}, resetMessage(n.cfg.From, email, link)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", addr, err)
	}
	return nil
}

func resetMessage(from, to, link string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Password reset\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString("Someone asked to reset the password of your account.\r\n")
	b.WriteString("Follow the link below to choose a new one:\r\n\r\n")
	b.WriteString(link + "\r\n\r\n")
	b.WriteString("If it wasn't you, ignore this message.\r\n")
	return []byte(b.String())
}
