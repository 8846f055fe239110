package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

var ErrNotificationDropped = errors.New("notification queue full")

// BackendConfirmationHook bootstraps the administrator and announces the
// newly confirmed identity to the platform backend.
type BackendConfirmationHook struct {
	admins *AdminBootstrapper
	tokens *TokenService
	queue  ports.NotificationQueue
	log    zerolog.Logger
}

// NewBackendConfirmationHook builds the hook. A nil queue disables the
// backend notification but keeps the admin bootstrap.
func NewBackendConfirmationHook(admins *AdminBootstrapper, tokens *TokenService, queue ports.NotificationQueue, log zerolog.Logger) *BackendConfirmationHook {
	return &BackendConfirmationHook{admins: admins, tokens: tokens, queue: queue, log: log}
}

func (h *BackendConfirmationHook) AfterEmailConfirmed(ctx context.Context, identity *domain.Identity) error {
	admin, err := h.admins.EnsureAdmin(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if h.queue == nil {
		return nil
	}

	adminToken, err := h.tokens.IssueAccessToken(admin)
	if err != nil {
		return fmt.Errorf("issue admin token: %w", err)
	}
	role := identity.Role
	if role == "" {
		role = domain.RoleUser
	}
	event := domain.UserConfirmedEvent{
		Email:      identity.Email,
		Role:       role,
		Username:   identity.UserName,
		AdminToken: adminToken,
	}
	if !h.queue.Enqueue(event) {
		return ErrNotificationDropped
	}
	h.log.Debug().Str("email", identity.Email).Msg("user confirmation queued for backend")
	return nil
}
