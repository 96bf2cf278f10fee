package handlers

import (
	"fmt"
	"net/smtp"
	"strings"

	"cafefresco/internal/config"
)

// Mailer sends plain HTML mail over SMTP. Delivery failures surface to the
// caller; nothing is queued or retried.
type Mailer struct {
	cfg config.Config
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.cfg.SMTPHost == "" {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}

	headers := []string{
		"From: " + m.cfg.MailFrom,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	return smtp.SendMail(addr, auth, m.cfg.MailFrom, []string{to}, []byte(message))
}

func resetEmailBody(resetURL string) string {
	return fmt.Sprintf(`<h3>Password Reset Request</h3>
<p>Click the link below to reset your password:</p>
<a href="%s">%s</a>
<p>This link will expire in 10 minutes.</p>`, resetURL, resetURL)
}
