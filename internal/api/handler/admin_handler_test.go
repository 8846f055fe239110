package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/attireme/auth-service/internal/core/domain"
)

func TestAdminHandler_DeleteUser(t *testing.T) {
	cases := map[domain.DeletionOutcome]int{
		domain.DeletionSuccess:       http.StatusOK,
		domain.DeletionEmailNotFound: http.StatusNotFound,
		domain.DeletionUserIsAdmin:   http.StatusForbidden,
	}
	for outcome, status := range cases {
		stub := &stubAccountService{t: t,
			deleteIdentityFn: func(ctx context.Context, email string) (domain.DeletionOutcome, error) {
				if email != "bob@example.com" {
					t.Fatalf("unexpected email %q", email)
				}
				return outcome, nil
			},
		}
		c, rec := newContext(http.MethodDelete, "/admin/users/bob@example.com", "")
		withEmailParam(c, "bob@example.com")
		_ = NewAdminHandler(stub).DeleteUser(c)
		if rec.Code != status {
			t.Fatalf("%s: expected %d, got %d", outcome, status, rec.Code)
		}
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	healthy := NewHealthHandler(map[string]Check{
		"store": func(ctx context.Context) error { return nil },
		"redis": func(ctx context.Context) error { return nil },
	})
	c, rec := newContext(http.MethodGet, "/health/ready", "")
	if err := healthy.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	degraded := NewHealthHandler(map[string]Check{
		"store": func(ctx context.Context) error { return nil },
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	c, rec = newContext(http.MethodGet, "/health/ready", "")
	_ = degraded.Readiness(c)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
