package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

// stubAccountService fails the test for any method whose func field is unset.
type stubAccountService struct {
	t                *testing.T
	registerFn       func(ctx context.Context, in ports.RegisterInput) (domain.RegistrationOutcome, error)
	authenticateFn   func(ctx context.Context, email, password string) (domain.AuthenticationResult, error)
	confirmEmailFn   func(ctx context.Context, email, token string) (domain.ConfirmEmailOutcome, error)
	requestResetFn   func(ctx context.Context, email string) (domain.PasswordResetRequestOutcome, error)
	confirmResetFn   func(ctx context.Context, email, token, password string) (domain.PasswordResetOutcome, error)
	getProfileFn     func(ctx context.Context, email string) (domain.ProfileResult, error)
	updateUserFn     func(ctx context.Context, caller, email string, p domain.UserProfile, role domain.Role) (domain.ProfileUpdateOutcome, error)
	updateCreatorFn  func(ctx context.Context, caller, email string, p domain.CreatorProfile, role domain.Role) (domain.ProfileUpdateOutcome, error)
	deleteIdentityFn func(ctx context.Context, email string) (domain.DeletionOutcome, error)
}

func (s *stubAccountService) unexpectedCall(name string) {
	s.t.Helper()
	s.t.Fatalf("unexpected call to %s", name)
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (domain.RegistrationOutcome, error) {
	if s.registerFn == nil {
		s.unexpectedCall("Register")
	}
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Authenticate(ctx context.Context, email, password string) (domain.AuthenticationResult, error) {
	if s.authenticateFn == nil {
		s.unexpectedCall("Authenticate")
	}
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAccountService) ConfirmEmail(ctx context.Context, email, token string) (domain.ConfirmEmailOutcome, error) {
	if s.confirmEmailFn == nil {
		s.unexpectedCall("ConfirmEmail")
	}
	return s.confirmEmailFn(ctx, email, token)
}

func (s *stubAccountService) RequestPasswordReset(ctx context.Context, email string) (domain.PasswordResetRequestOutcome, error) {
	if s.requestResetFn == nil {
		s.unexpectedCall("RequestPasswordReset")
	}
	return s.requestResetFn(ctx, email)
}

func (s *stubAccountService) ConfirmPasswordReset(ctx context.Context, email, token, password string) (domain.PasswordResetOutcome, error) {
	if s.confirmResetFn == nil {
		s.unexpectedCall("ConfirmPasswordReset")
	}
	return s.confirmResetFn(ctx, email, token, password)
}

func (s *stubAccountService) GetProfile(ctx context.Context, email string) (domain.ProfileResult, error) {
	if s.getProfileFn == nil {
		s.unexpectedCall("GetProfile")
	}
	return s.getProfileFn(ctx, email)
}

func (s *stubAccountService) UpdateUserProfile(ctx context.Context, caller, email string, p domain.UserProfile, role domain.Role) (domain.ProfileUpdateOutcome, error) {
	if s.updateUserFn == nil {
		s.unexpectedCall("UpdateUserProfile")
	}
	return s.updateUserFn(ctx, caller, email, p, role)
}

func (s *stubAccountService) UpdateCreatorProfile(ctx context.Context, caller, email string, p domain.CreatorProfile, role domain.Role) (domain.ProfileUpdateOutcome, error) {
	if s.updateCreatorFn == nil {
		s.unexpectedCall("UpdateCreatorProfile")
	}
	return s.updateCreatorFn(ctx, caller, email, p, role)
}

func (s *stubAccountService) DeleteIdentity(ctx context.Context, email string) (domain.DeletionOutcome, error) {
	if s.deleteIdentityFn == nil {
		s.unexpectedCall("DeleteIdentity")
	}
	return s.deleteIdentityFn(ctx, email)
}

type stubRefresher struct {
	refreshFn func(ctx context.Context, token string) (domain.RefreshResult, error)
}

func (s *stubRefresher) Refresh(ctx context.Context, token string) (domain.RefreshResult, error) {
	return s.refreshFn(ctx, token)
}

type stubPolicies struct {
	checkFn func(ctx context.Context, token string, role domain.Role) domain.PolicyOutcome
}

func (s *stubPolicies) Check(ctx context.Context, token string, role domain.Role) domain.PolicyOutcome {
	return s.checkFn(ctx, token, role)
}

// newContext builds an echo context with the validator installed, as the router does.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var p ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return p
}

// statusOf returns the response status, including errors left for the echo error handler.
func statusOf(err error, rec *httptest.ResponseRecorder) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return rec.Code
}
