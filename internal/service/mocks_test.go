package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bvcott21/ai-store/internal/auth"
	"github.com/Bvcott21/ai-store/internal/domain"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) identity(args mock.Arguments) (*domain.Identity, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return m.identity(m.Called(ctx, username))
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return m.identity(m.Called(ctx, email))
}

func (m *mockUserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.Identity, error) {
	return m.identity(m.Called(ctx, identifier))
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, identity *domain.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Role Repository ---

type mockRoleRepository struct {
	mock.Mock
}

func (m *mockRoleRepository) FindByAuthority(ctx context.Context, a domain.Authority) (*domain.Role, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *mockRoleRepository) Save(ctx context.Context, a domain.Authority) (*domain.Role, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

// --- Fakes ---

// inlineTransactor runs fn directly and counts calls.
type inlineTransactor struct {
	calls int
}

func (t *inlineTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type recordingPublisher struct {
	published []*domain.Identity
	err       error
}

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, identity *domain.Identity) error {
	p.published = append(p.published, identity)
	return p.err
}

// memAttempts is an in-memory LoginAttemptStore.
type memAttempts struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemAttempts() *memAttempts {
	return &memAttempts{counts: make(map[string]int64)}
}

func (m *memAttempts) Failures(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[strings.ToLower(id)], nil
}

func (m *memAttempts) RecordFailure(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[strings.ToLower(id)]++
	return m.counts[strings.ToLower(id)], nil
}

func (m *memAttempts) Reset(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, strings.ToLower(id))
	return m.err
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

func hashForTest(t *testing.T, plain string) string {
	t.Helper()
	h, err := testHasher().Hash(plain)
	require.NoError(t, err)
	return h
}

func newCodec(t *testing.T, opts ...auth.TokenOption) *auth.TokenCodec {
	t.Helper()
	c, err := auth.NewTokenCodec(auth.TokenConfig{
		Secret: "service-test-secret-service-test-secret",
		Expiry: time.Hour,
		Issuer: "store-auth",
	}, opts...)
	require.NoError(t, err)
	return c
}

func storedIdentity(t *testing.T, username, email, password string) *domain.Identity {
	t.Helper()
	return &domain.Identity{
		ID:           1,
		Username:     username,
		Email:        email,
		PasswordHash: hashForTest(t, password),
		FirstName:    "Alice",
		LastName:     "Smith",
		Enabled:      true,
		Roles:        []domain.Role{{ID: 1, Authority: domain.AuthorityUser}},
		Address:      &domain.Address{ID: 1, StreetLine1: "1 Main St", AddressType: domain.AddressHome},
	}
}
