package notify

import (
	"context"
	"log"
	"strings"

	"eazicred/internal/config"
)

// Message is one outbound notification
type Message struct {
	Recipients []string
	Subject    string
	Body       string
}

// Notifier delivers messages over some channel
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the notifier selected by cfg.Provider
func New(cfg config.MailConfig) Notifier {
	switch cfg.Provider {
	case "mailersend":
		return NewMailerSend(cfg.APIKey, cfg.FromName, cfg.FromEmail)
	case "smtp":
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.SMTPUser, cfg.SMTPPass)
	default:
		return NewLog()
	}
}

// LogNotifier writes messages to the log instead of sending them
type LogNotifier struct{}

func NewLog() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Send(ctx context.Context, msg Message) error {
	log.Printf("📧 [DEV MAIL] to=%s subject=%q\n%s", strings.Join(msg.Recipients, ","), msg.Subject, msg.Body)
	return nil
}
