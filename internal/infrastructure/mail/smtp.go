package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/attireme/auth-service/internal/core/domain"
)

var ErrNoRecipient = errors.New("email has no recipient")

// Config holds the SMTP relay settings.
type Config struct {
	Host        string
	Port        int
	User        string
	Pass        string
	From        string
	DisplayName string
	Timeout     time.Duration
}

// SMTPSender delivers HTML email through an SMTP relay using STARTTLS.
type SMTPSender struct {
	client      *gomail.Client
	from        string
	displayName string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Pass),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From, displayName: cfg.DisplayName}, nil
}

func (s *SMTPSender) Send(ctx context.Context, email domain.Email) error {
	msg, err := buildMessage(s.from, s.displayName, email)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from, displayName string, email domain.Email) (*gomail.Msg, error) {
	if strings.TrimSpace(email.To) == "" {
		return nil, ErrNoRecipient
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(displayName, from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, email.HTML)
	return msg, nil
}
