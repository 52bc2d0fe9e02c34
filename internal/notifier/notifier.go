package notifier

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/digest"
	"github.com/ibeckermayer/portfoliowatch/internal/logging"
	"github.com/ibeckermayer/portfoliowatch/internal/notifier/providers"
)

// Notifier handles sending digest notifications
type Notifier struct {
	sender Sender
	log    *zap.SugaredLogger
}

// Sender defines the interface for email sending
type Sender interface {
	Send(to, subject, htmlBody, plainBody string) error
}

// New creates a new notifier with the given sender
func New(sender Sender) *Notifier {
	return &Notifier{sender: sender, log: logging.Named("notifier")}
}

// NewFromConfig creates a notifier based on configuration
func NewFromConfig(cfg config.EmailConfig) (*Notifier, error) {
	var sender Sender

	switch cfg.Provider {
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, errors.New("email.smtp_host is required")
		}
		sender = providers.NewSMTPSender(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPass,
			cfg.FromAddr,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}

	return New(sender), nil
}

// SendDigest sends a digest email
func (n *Notifier) SendDigest(d *digest.Digest, toAddr string) error {
	if toAddr == "" {
		return errors.New("no recipient address configured")
	}
	if err := n.sender.Send(toAddr, d.Subject, d.HTMLBody, d.PlainBody); err != nil {
		return err
	}
	n.log.Infow("digest sent", "to", toAddr, "companies", len(d.Companies))
	return nil
}
