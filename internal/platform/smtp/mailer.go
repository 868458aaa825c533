// Package smtp implements outbound mail delivery for report jobs.
package smtp

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

// LoadConfig loads SMTP configuration from environment variables.
// Defaults match the original deployment (implicit TLS on port 465).
func LoadConfig() Config {
	cfg := Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     465,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if v, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && v > 0 {
		cfg.Port = v
	}
	return cfg
}

// Mailer sends HTML mail over SMTP with implicit TLS.
type Mailer struct {
	cfg Config
}

// NewMailer creates a Mailer with the given configuration.
func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one HTML message to a single recipient.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	// ポート465は接続時点からTLS（STARTTLSではない）
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(m.cfg.User); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(BuildMessage(m.cfg.User, to, subject, htmlBody))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// BuildMessage assembles an RFC 5322 message with an HTML body.
func BuildMessage(from, to, subject, htmlBody string) string {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")
	return sb.String()
}
