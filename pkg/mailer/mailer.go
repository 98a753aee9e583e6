package mailer

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/fillqr/intake-api/pkg/config"
)

// Mailer sends staff notification mails over SMTP.
type Mailer struct {
	cfg config.MailConfig
}

// New constructs a Mailer from configuration.
func New(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether outbound mail is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Enabled && m.cfg.SMTPHost != ""
}

// SendApplicationNotification informs the tenant's staff address about a new
// application. The body deliberately carries no applicant data; staff review
// details in the admin view only.
func (m *Mailer) SendApplicationNotification(to, tenantName, applicationID string) error {
	if !m.Enabled() {
		return nil
	}
	if to == "" {
		return fmt.Errorf("notification recipient missing")
	}

	subject := fmt.Sprintf("New membership application (%s) - %s", applicationID, tenantName)
	body := fmt.Sprintf(
		"Hello,\r\n\r\na new membership application has just been submitted.\r\n"+
			"Application ID: %s\r\nReceived: %s\r\n\r\n"+
			"Note: this mail intentionally contains no personal data.\r\n",
		applicationID, time.Now().Format("02.01.2006 15:04"),
	)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.From, to, subject, body))

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
