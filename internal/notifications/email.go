package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"starevents/internal/shared/config"
)

// EmailSender delivers a notification to its recipient.
type EmailSender interface {
	Send(ctx context.Context, notification *Notification) error
}

// SMTPEmailSender renders per-type HTML templates and sends them over SMTP.
type SMTPEmailSender struct {
	cfg       config.EmailConfig
	templates map[string]*template.Template
}

func NewSMTPEmailSender(cfg config.EmailConfig) (*SMTPEmailSender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	sender := &SMTPEmailSender{
		cfg:       cfg,
		templates: make(map[string]*template.Template),
	}
	sender.loadTemplates()
	return sender, nil
}

func (s *SMTPEmailSender) loadTemplates() {
	s.templates[TypeBookingConfirmed] = template.Must(template.New(TypeBookingConfirmed).Parse(`
<h2>Booking Confirmed</h2>
<p>Hi {{.user_name}},</p>
<p>Your booking <strong>{{.booking_number}}</strong> for {{.event_name}} is confirmed.</p>
<p>Total paid: {{.total_amount}}</p>
<p>Your tickets will arrive in a separate email shortly.</p>`))

	s.templates[TypeTicketsIssued] = template.Must(template.New(TypeTicketsIssued).Parse(`
<h2>Your Tickets</h2>
<p>Hi {{.user_name}},</p>
<p>{{.ticket_count}} ticket(s) for booking <strong>{{.booking_number}}</strong> have been issued.</p>
<p>Present the QR code on each ticket at the venue gate.</p>`))

	s.templates[TypeBookingCancelled] = template.Must(template.New(TypeBookingCancelled).Parse(`
<h2>Booking Cancelled</h2>
<p>Hi {{.user_name}},</p>
<p>Your booking <strong>{{.booking_number}}</strong> has been cancelled and the tickets released.</p>`))
}

func (s *SMTPEmailSender) Send(ctx context.Context, notification *Notification) error {
	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return fmt.Errorf("no template for notification type %q", notification.Type)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, notification.Data); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	subject := notification.Subject
	if subject == "" {
		subject = defaultSubject(notification)
	}

	message := s.buildMessage(notification.Recipient, subject, body.String())

	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{notification.Recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *SMTPEmailSender) buildMessage(to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}
