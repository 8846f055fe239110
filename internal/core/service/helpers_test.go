package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
	"github.com/attireme/auth-service/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubMailer struct {
	mu   sync.Mutex
	err  error
	sent []domain.Email
}

func (m *stubMailer) Send(_ context.Context, email domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *stubMailer) last(t *testing.T) domain.Email {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no email sent")
	return m.sent[len(m.sent)-1]
}

type stubHook struct {
	err       error
	confirmed []*domain.Identity
}

func (h *stubHook) AfterEmailConfirmed(_ context.Context, identity *domain.Identity) error {
	h.confirmed = append(h.confirmed, identity)
	return h.err
}

type stubQueue struct {
	full   bool
	events []domain.UserConfirmedEvent
}

func (q *stubQueue) Enqueue(event domain.UserConfirmedEvent) bool {
	if q.full {
		return false
	}
	q.events = append(q.events, event)
	return true
}

// failingStore wraps a real store and fails selected operations.
type failingStore struct {
	*memory.Store
	createProfileErr error
	findErr          error
}

func (s *failingStore) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.Store.FindByEmail(ctx, email)
}

func (s *failingStore) CreateUserProfile(ctx context.Context, p *domain.UserProfile) error {
	if s.createProfileErr != nil {
		return s.createProfileErr
	}
	return s.Store.CreateUserProfile(ctx, p)
}

// cancelAwareStore fails deletes on a done context the way the database
// drivers do.
type cancelAwareStore struct {
	*memory.Store
}

func (s *cancelAwareStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func (s *cancelAwareStore) DeleteProfiles(ctx context.Context, identityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.DeleteProfiles(ctx, identityID)
}

// cancelingMailer simulates a client that disconnects while the email is
// being sent.
type cancelingMailer struct {
	cancel context.CancelFunc
}

func (m *cancelingMailer) Send(ctx context.Context, _ domain.Email) error {
	m.cancel()
	<-ctx.Done()
	return ctx.Err()
}

var errBoom = errors.New("boom")

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

const testSecret = "test-secret"

type fixture struct {
	store  ports.CredentialStore
	mem    *memory.Store
	tokens *TokenService
	mailer *stubMailer
	hook   *stubHook
	svc    *AccountService
}

func testHasher() PasswordHasher { return BcryptHasher{Cost: bcrypt.MinCost} }

func newTokenService(store ports.IdentityRepository) *TokenService {
	return NewTokenService(store, TokenOptions{
		Secret:           testSecret,
		Issuer:           "attireme-auth",
		Audience:         "attireme",
		AccessTTL:        time.Minute,
		RefreshTTL:       time.Hour,
		RefreshRetention: 3,
	})
}

func newFixture(t *testing.T, store ports.CredentialStore) *fixture {
	t.Helper()
	mem := memory.NewStore()
	if store == nil {
		store = mem
	}
	tokens := newTokenService(store)
	f := &fixture{
		store:  store,
		mem:    mem,
		tokens: tokens,
		mailer: &stubMailer{},
		hook:   &stubHook{},
	}
	f.svc = NewAccountService(AccountDeps{
		Store:        store,
		Tokens:       tokens,
		Verification: NewVerificationTokens(memory.NewVerificationTokenStore(), time.Hour, time.Hour),
		Mailer:       f.mailer,
		Hook:         f.hook,
		Hasher:       testHasher(),
	}, AccountOptions{FrontendURL: "https://attireme.test"}, zerolog.Nop())
	return f
}

var (
	linkTokenRe = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)
	resetCodeRe = regexp.MustCompile(`<strong>([A-Za-z0-9_-]+)</strong>`)
)

func (f *fixture) register(t *testing.T, email string, kind domain.UserType) string {
	t.Helper()
	out, err := f.svc.Register(context.Background(), ports.RegisterInput{
		UserName: "someone",
		Email:    email,
		Password: "Secret1",
		UserType: kind,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationSuccess, out)

	m := linkTokenRe.FindStringSubmatch(f.mailer.last(t).HTML)
	require.Len(t, m, 2, "confirmation link without token")
	return m[1]
}

func (f *fixture) registerConfirmed(t *testing.T, email string, kind domain.UserType) {
	t.Helper()
	token := f.register(t, email, kind)
	out, err := f.svc.ConfirmEmail(context.Background(), email, token)
	require.NoError(t, err)
	require.Equal(t, domain.ConfirmEmailSuccess, out)
}
