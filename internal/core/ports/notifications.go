package ports

import (
	"context"

	"github.com/attireme/auth-service/internal/core/domain"
)

// EmailSender delivers a single outbound message.
type EmailSender interface {
	Send(ctx context.Context, email domain.Email) error
}

// BackendNotifier informs the main platform backend about confirmed accounts.
type BackendNotifier interface {
	NotifyUserConfirmed(ctx context.Context, event domain.UserConfirmedEvent) error
}

// NotificationQueue accepts events for asynchronous delivery.
// Enqueue never blocks and reports false when the event was dropped.
type NotificationQueue interface {
	Enqueue(event domain.UserConfirmedEvent) bool
}

// ConfirmationHook runs after an identity successfully confirms its email.
// Its errors never change the outcome reported to the confirming user.
type ConfirmationHook interface {
	AfterEmailConfirmed(ctx context.Context, identity *domain.Identity) error
}
