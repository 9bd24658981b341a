package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
)

// ContactNotifier tells the site owner about new contact messages by email
// and SMS. Either channel is skipped when it is not configured.
type ContactNotifier struct {
	mailer      *Mailer
	notifyEmail string
	sms         *SMSSender
	notifyPhone string
}

func NewContactNotifier(c map[string]string) *ContactNotifier {
	n := &ContactNotifier{
		notifyEmail: config.GetString(c, "CONTACT_NOTIFY_EMAIL", ""),
		notifyPhone: config.GetString(c, "CONTACT_NOTIFY_PHONE", ""),
	}

	if n.notifyEmail != "" {
		mailer, err := NewMailer(c)
		if err != nil {
			log.Warn().Err(err).Msg("contact email notifications disabled")
		} else {
			n.mailer = mailer
		}
	}
	if n.notifyPhone != "" {
		sms, err := NewSMSSender(c)
		if err != nil {
			log.Warn().Err(err).Msg("contact SMS notifications disabled")
		} else {
			n.sms = sms
		}
	}
	return n
}

// Enabled reports whether at least one channel is configured.
func (n *ContactNotifier) Enabled() bool {
	return n != nil && (n.mailer != nil || n.sms != nil)
}

// NotifyContact sends the configured notifications for msg. Every channel is
// attempted and their failures are joined.
func (n *ContactNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if !n.Enabled() {
		return nil
	}

	var errList []error
	if n.mailer != nil {
		email := ResendEmailRequest{
			To:      []string{n.notifyEmail},
			Subject: contactSubject(msg),
			Html:    contactHTML(msg),
			ReplyTo: msg.Email,
		}
		if _, err := n.mailer.SendEmail(ctx, email); err != nil {
			errList = append(errList, fmt.Errorf("email: %w", err))
		}
	}
	if n.sms != nil {
		if _, err := n.sms.SendSMS(n.notifyPhone, contactSMS(msg)); err != nil {
			errList = append(errList, fmt.Errorf("sms: %w", err))
		}
	}
	return errors.Join(errList...)
}

func senderName(msg models.ContactMessage) string {
	if msg.Name != nil && strings.TrimSpace(*msg.Name) != "" {
		return strings.TrimSpace(*msg.Name)
	}
	return msg.Email
}

func contactSubject(msg models.ContactMessage) string {
	if msg.Subject != nil && strings.TrimSpace(*msg.Subject) != "" {
		return "New contact message: " + strings.TrimSpace(*msg.Subject)
	}
	return "New contact message from " + senderName(msg)
}

func contactHTML(msg models.ContactMessage) string {
	var b strings.Builder
	b.WriteString("<p><strong>From:</strong> ")
	b.WriteString(html.EscapeString(senderName(msg)))
	b.WriteString(" &lt;")
	b.WriteString(html.EscapeString(msg.Email))
	b.WriteString("&gt;</p>")
	if msg.Subject != nil {
		b.WriteString("<p><strong>Subject:</strong> ")
		b.WriteString(html.EscapeString(*msg.Subject))
		b.WriteString("</p>")
	}
	b.WriteString("<p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	b.WriteString("</p>")
	return b.String()
}

const smsPreviewLength = 120

func contactSMS(msg models.ContactMessage) string {
	preview := []rune(strings.TrimSpace(msg.Message))
	if len(preview) > smsPreviewLength {
		preview = append(preview[:smsPreviewLength], '…')
	}
	return fmt.Sprintf("New contact message from %s: %s", senderName(msg), string(preview))
}
