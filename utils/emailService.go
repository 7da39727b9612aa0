package utils

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrNoMailProvider is returned when neither SendGrid nor SMTP is configured
var ErrNoMailProvider = errors.New("no mail provider configured")

// MailConfigured reports whether any mail provider is available
func MailConfigured() bool {
	cfg := config.AppConfig
	return cfg != nil && cfg.EmailSender != "" && (cfg.SendgridAPIKey != "" || cfg.SMTPHost != "")
}

// SendEmail delivers an HTML email through SendGrid, falling back to SMTP
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	if !MailConfigured() {
		return ErrNoMailProvider
	}
	cfg := config.AppConfig

	if cfg.SendgridAPIKey != "" {
		from := mail.NewEmail(siteName(), cfg.EmailSender)
		to := mail.NewEmail(toName, toEmail)
		message := mail.NewSingleEmail(from, subject, to, subject, htmlBody)

		resp, err := sendgrid.NewSendClient(cfg.SendgridAPIKey).Send(message)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 300 {
			return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
		}
		log.Printf("[MAIL] Sent %q to %s via sendgrid", subject, toEmail)
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s <%s>\r\n", siteName(), cfg.EmailSender)
	msg += fmt.Sprintf("To: %s\r\n", toEmail)
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", cfg.EmailSender, cfg.SMTPPassword, cfg.SMTPHost)
	if err := smtp.SendMail(cfg.SMTPHost+":"+cfg.SMTPPort, auth, cfg.EmailSender, []string{toEmail}, []byte(msg)); err != nil {
		return err
	}
	log.Printf("[MAIL] Sent %q to %s via smtp", subject, toEmail)
	return nil
}

// getEmailTemplate wraps body content in the platform layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
			.content { padding: 32px 28px; color: #1F2937; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 16px; text-align: center; font-size: 12px; color: #6B7280; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You are receiving this email because of activity on your account.</div>
		</div>
	</body>
	</html>
	`, siteName(), title, bodyContent)
}

// SendNotificationEmail sends a notification as a templated email
func SendNotificationEmail(toName, toEmail, title, message string) error {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>%s</p>`, toName, message)
	return SendEmail(toName, toEmail, title, getEmailTemplate(title, body))
}
