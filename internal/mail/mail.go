// Package mail sends EchoHub's account lifecycle emails over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/cipherhq/echohub-server/internal/logger"
)

// Sender delivers HTML emails through a plain-auth SMTP relay. With an empty
// Host the rendered email is logged instead of sent, for local development.
type Sender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	AppURL   string // Base URL of the frontend, used in links
}

func NewSender(host, port, username, password, from, appURL string) *Sender {
	return &Sender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		AppURL:   appURL,
	}
}

// SendVerificationCode mails the 6-digit account verification code.
func (s *Sender) SendVerificationCode(to, username, code string) error {
	return s.send(to, "EchoHub: Account Verification", verificationTemplate, map[string]string{
		"Username": username,
		"Code":     code,
	})
}

// SendAccountVerified confirms a completed verification.
func (s *Sender) SendAccountVerified(to, username string) error {
	return s.send(to, "EchoHub: Account Verified", verifiedTemplate, map[string]string{
		"Username": username,
		"AppURL":   s.AppURL,
	})
}

// SendPasswordReset mails the reset link for a pending request.
func (s *Sender) SendPasswordReset(to, username, requestID string) error {
	link := fmt.Sprintf("%s/changepassword?request=%s", s.AppURL, requestID)
	return s.send(to, "EchoHub: Password Reset Requested", resetTemplate, map[string]string{
		"Username": username,
		"Link":     link,
	})
}

// SendPasswordChanged notifies the user that their password changed.
func (s *Sender) SendPasswordChanged(to, username string) error {
	return s.send(to, "EchoHub: Password Changed", changedTemplate, map[string]string{
		"Username": username,
	})
}

func (s *Sender) send(to, subject string, tmpl *template.Template, data map[string]string) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	headers := map[string]string{
		"From":         s.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body.String()

	if s.Host == "" {
		logger.Log.Infow("mail transport not configured, logging instead",
			"to", to,
			"subject", subject,
		)
		return nil
	}

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)
	return smtp.SendMail(addr, auth, s.From, []string{to}, []byte(message))
}
