// Package backend calls the AttireMe platform backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultBackoffBase = 200 * time.Millisecond
)

var _ ports.BackendNotifier = (*Client)(nil)

// Config configures the backend client.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  uint64
	BackoffBase time.Duration
}

// Client posts user confirmation events to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	backoff func() retry.Backoff
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := cfg.BackoffBase
	if base <= 0 {
		base = defaultBackoffBase
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(cfg.MaxRetries, retry.NewExponential(base))
		},
		log: log,
	}
}

type userPayload struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Body)
}

// NotifyUserConfirmed POSTs the event to {base}/user. Transport errors and 5xx
// responses are retried; other non-2xx responses fail immediately.
func (c *Client) NotifyUserConfirmed(ctx context.Context, event domain.UserConfirmedEvent) error {
	body, err := json.Marshal(userPayload{
		Email:    event.Email,
		Role:     strings.ToLower(event.Role.String()),
		Username: event.Username,
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	err = retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		err := c.post(ctx, body, event.AdminToken)
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError {
			return err
		}
		if err != nil {
			c.log.Debug().Err(err).Str("email", event.Email).Msg("backend notification attempt failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("notify backend: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body []byte, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(msg)}
	}
	return nil
}
