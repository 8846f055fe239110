package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/attireme/auth-service/internal/core/domain"
)

// LogSender writes outgoing email to the log instead of delivering it.
// It is used when no SMTP host is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, email domain.Email) error {
	if email.To == "" {
		return ErrNoRecipient
	}
	s.log.Info().
		Str("to", email.To).
		Str("subject", email.Subject).
		Str("body", email.HTML).
		Msg("email not delivered: no SMTP host configured")
	return nil
}
