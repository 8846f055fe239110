package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attireme/auth-service/internal/api/handler"
	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/service"
	"github.com/attireme/auth-service/internal/infrastructure/db/memory"
)

type outbox struct {
	mu   sync.Mutex
	sent []domain.Email
}

func (o *outbox) Send(_ context.Context, email domain.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, email)
	return nil
}

func (o *outbox) lastHTML() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		return ""
	}
	return o.sent[len(o.sent)-1].HTML
}

var confirmTokenRe = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

func newTestRouter(t *testing.T) (*echo.Echo, *outbox) {
	t.Helper()
	store := memory.NewStore()
	hasher := service.BcryptHasher{Cost: bcrypt.MinCost}
	tokens := service.NewTokenService(store, service.TokenOptions{
		Secret:   "router-secret",
		Issuer:   "attireme-auth",
		Audience: "attireme",
	})
	admins := service.NewAdminBootstrapper(store, hasher, service.AdminOptions{
		Email:    "admin@attireme.com",
		UserName: "admin",
		Password: "Admin123!",
	}, zerolog.Nop())
	mail := &outbox{}
	accounts := service.NewAccountService(service.AccountDeps{
		Store:        store,
		Tokens:       tokens,
		Verification: service.NewVerificationTokens(memory.NewVerificationTokenStore(), 0, 0),
		Mailer:       mail,
		Hook:         service.NewBackendConfirmationHook(admins, tokens, nil, zerolog.Nop()),
		Hasher:       hasher,
	}, service.AccountOptions{FrontendURL: "https://attireme.test"}, zerolog.Nop())

	e := NewRouter(Deps{
		Accounts:   accounts,
		Refresher:  tokens,
		Policies:   service.NewPolicyEvaluator(tokens, store, zerolog.Nop()),
		Tokens:     tokens,
		Checks:     map[string]handler.Check{"store": store.Ping},
		Log:        zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
	return e, mail
}

func do(e *echo.Echo, method, target, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func tokensFrom(t *testing.T, rec *httptest.ResponseRecorder) (access, refresh string) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["jwToken"])
	require.NotEmpty(t, resp["refreshToken"])
	return resp["jwToken"], resp["refreshToken"]
}

func TestRouter_AccountLifecycle(t *testing.T) {
	e, mail := newTestRouter(t)

	rec := do(e, http.MethodPost, "/register",
		`{"userName":"alice","email":"alice@example.com","password":"Secret1","userType":"User"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	m := confirmTokenRe.FindStringSubmatch(mail.lastHTML())
	require.Len(t, m, 2)

	rec = do(e, http.MethodPost, "/confirm-email", `{"email":"alice@example.com","token":"`+m[1]+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	access, refresh := tokensFrom(t, do(e, http.MethodPost, "/authenticate",
		`{"email":"Alice@Example.com","password":"Secret1"}`, ""))

	rec = do(e, http.MethodPost, "/user-policy", `{"token":"`+access+`"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodPost, "/creator-policy", `{"token":"`+access+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPut, "/user/alice%40example.com",
		`{"fullName":"Alice A","address":"Main St 1","phoneNumber":"555"}`, access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/user/alice@example.com", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fullName":"Alice A"`)

	rec = do(e, http.MethodPut, "/creator/alice@example.com", `{"businessName":"Shop"}`, access)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, _ = tokensFrom(t, do(e, http.MethodPost, "/refresh-token", `{"token":"`+refresh+`"}`, ""))
	rec = do(e, http.MethodPost, "/refresh-token", `{"token":"`+refresh+`"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "rotated refresh token must not be reusable")
}

func TestRouter_ProfileUpdateRequiresMatchingToken(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPut, "/user/alice@example.com", `{"fullName":"Alice"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPut, "/user/alice@example.com", `{"fullName":"Alice"}`, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var p handler.ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, http.StatusUnauthorized, p.Status)
	assert.Equal(t, "Invalid json web token", p.Detail)
}

func TestRouter_AdminDeletion(t *testing.T) {
	e, mail := newTestRouter(t)

	rec := do(e, http.MethodPost, "/register",
		`{"userName":"bob","email":"bob@example.com","password":"Secret1","userType":"Creator"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	m := confirmTokenRe.FindStringSubmatch(mail.lastHTML())
	require.Len(t, m, 2)
	// Confirmation bootstraps the administrator account.
	rec = do(e, http.MethodPost, "/confirm-email", `{"email":"bob@example.com","token":"`+m[1]+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	bobAccess, _ := tokensFrom(t, do(e, http.MethodPost, "/authenticate",
		`{"email":"bob@example.com","password":"Secret1"}`, ""))
	rec = do(e, http.MethodDelete, "/admin/users/bob@example.com", "", bobAccess)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminAccess, _ := tokensFrom(t, do(e, http.MethodPost, "/authenticate",
		`{"email":"admin@attireme.com","password":"Admin123!"}`, ""))
	rec = do(e, http.MethodPost, "/admin-policy", `{"token":"`+adminAccess+`"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodDelete, "/admin/users/admin@attireme.com", "", adminAccess)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodDelete, "/admin/users/bob@example.com", "", adminAccess)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/user/bob@example.com", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ErrorEnvelopeAndProbes(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var p handler.ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, http.StatusNotFound, p.Status)

	rec = do(e, http.MethodPost, "/authenticate", "{", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health/ready", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/metrics", "", "").Code)
}
