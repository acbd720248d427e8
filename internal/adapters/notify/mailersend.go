package notify

import (
	"context"
	"errors"

	"github.com/mailersend/mailersend-go"
)

var ErrMailerSendDisabled = errors.New("MailerSend not configured")

// MailerSendNotifier sends plain-text email through the MailerSend API
type MailerSendNotifier struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendNotifier {
	m := &MailerSendNotifier{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendNotifier) Send(ctx context.Context, msg Message) error {
	if !m.enabled {
		return ErrMailerSendDisabled
	}
	if len(msg.Recipients) == 0 {
		return nil
	}

	recipients := make([]mailersend.Recipient, 0, len(msg.Recipients))
	for _, r := range msg.Recipients {
		recipients = append(recipients, mailersend.Recipient{Email: r})
	}

	email := m.client.Email.NewMessage()
	email.SetFrom(m.from)
	email.SetRecipients(recipients)
	email.SetSubject(msg.Subject)
	email.SetText(msg.Body)

	_, err := m.client.Email.Send(ctx, email)
	return err
}
