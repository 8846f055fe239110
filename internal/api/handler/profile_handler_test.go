package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/attireme/auth-service/internal/core/domain"
)

func withEmailParam(c echo.Context, email string) {
	c.SetParamNames("email")
	c.SetParamValues(email)
}

func TestProfileHandler_GetProfile_User(t *testing.T) {
	stub := &stubAccountService{t: t,
		getProfileFn: func(ctx context.Context, email string) (domain.ProfileResult, error) {
			if email != "alice@example.com" {
				t.Fatalf("unexpected email %q", email)
			}
			return domain.ProfileResult{
				Outcome: domain.ProfileSuccess,
				Profile: &domain.Profile{User: &domain.UserProfile{FullName: "Alice A", Address: "Main St 1", PhoneNumber: "555"}},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/user/alice@example.com", "")
	withEmailParam(c, "alice@example.com")

	if err := NewProfileHandler(stub).GetProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "User" || resp["fullName"] != "Alice A" || resp["phoneNumber"] != "555" {
		t.Fatalf("unexpected profile payload: %+v", resp)
	}
	if _, ok := resp["businessName"]; ok {
		t.Fatalf("user profile must not carry businessName")
	}
}

func TestProfileHandler_GetProfile_NotFoundOutcomes(t *testing.T) {
	for _, outcome := range []domain.ProfileOutcome{
		domain.ProfileEmailNotFound,
		domain.ProfileUserIsAdmin,
		domain.ProfileUserNotInitialized,
		domain.ProfileCreatorNotInitialized,
	} {
		stub := &stubAccountService{t: t,
			getProfileFn: func(ctx context.Context, email string) (domain.ProfileResult, error) {
				return domain.ProfileResult{Outcome: outcome}, nil
			},
		}
		c, rec := newContext(http.MethodGet, "/user/x@example.com", "")
		withEmailParam(c, "x@example.com")
		_ = NewProfileHandler(stub).GetProfile(c)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", outcome, rec.Code)
		}
	}
}

func TestProfileHandler_UpdateUser_PassesCallerAndExpectedRole(t *testing.T) {
	stub := &stubAccountService{t: t,
		updateUserFn: func(ctx context.Context, caller, email string, p domain.UserProfile, role domain.Role) (domain.ProfileUpdateOutcome, error) {
			if caller != "alice@example.com" || email != "alice@example.com" || role != domain.RoleUser {
				t.Fatalf("unexpected args: %s %s %s", caller, email, role)
			}
			if p.FullName != "Alice A" || p.Address != "Main St 1" {
				t.Fatalf("unexpected profile: %+v", p)
			}
			return domain.ProfileUpdateSuccess, nil
		},
	}
	c, rec := newContext(http.MethodPut, "/user/alice@example.com", `{"fullName":"Alice A","address":"Main St 1","phoneNumber":"555"}`)
	withEmailParam(c, "alice@example.com")
	c.Set(CtxEmail, "alice@example.com")

	if err := NewProfileHandler(stub).UpdateUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProfileHandler_UpdateCreator_Outcomes(t *testing.T) {
	cases := map[domain.ProfileUpdateOutcome]int{
		domain.ProfileUpdateEmailNotFound: http.StatusNotFound,
		domain.ProfileUpdateUserIsAdmin:   http.StatusNotFound,
		domain.ProfileUpdateWrongUserType: http.StatusForbidden,
		domain.ProfileUpdateInvalidToken:  http.StatusUnauthorized,
	}
	for outcome, status := range cases {
		stub := &stubAccountService{t: t,
			updateCreatorFn: func(ctx context.Context, caller, email string, p domain.CreatorProfile, role domain.Role) (domain.ProfileUpdateOutcome, error) {
				if role != domain.RoleCreator {
					t.Fatalf("expected Creator role, got %s", role)
				}
				return outcome, nil
			},
		}
		c, rec := newContext(http.MethodPut, "/creator/shop@example.com", `{"businessName":"Shop"}`)
		withEmailParam(c, "shop@example.com")
		c.Set(CtxEmail, "shop@example.com")
		_ = NewProfileHandler(stub).UpdateCreator(c)
		if rec.Code != status {
			t.Fatalf("%s: expected %d, got %d", outcome, status, rec.Code)
		}
	}
}

func TestProfileHandler_UpdateWithoutCaller(t *testing.T) {
	c, rec := newContext(http.MethodPut, "/user/alice@example.com", `{"fullName":"Alice"}`)
	withEmailParam(c, "alice@example.com")

	err := NewProfileHandler(&stubAccountService{t: t}).UpdateUser(c)
	if got := statusOf(err, rec); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}
