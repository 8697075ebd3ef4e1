package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Bvcott21/ai-store/internal/domain"
	"github.com/Bvcott21/ai-store/internal/service"
	"github.com/Bvcott21/ai-store/pkg/health"
	"github.com/Bvcott21/ai-store/pkg/httputil"
	"github.com/Bvcott21/ai-store/pkg/middleware"
)

// ============================================================================
// Mock services
// ============================================================================

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Authenticate(ctx context.Context, identifier, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *mockAuth) Validate(ctx context.Context, token string) bool {
	return m.Called(ctx, token).Bool(0)
}

func (m *mockAuth) ResolveIdentity(ctx context.Context, token string) domain.AuthenticatedIdentity {
	return m.Called(ctx, token).Get(0).(domain.AuthenticatedIdentity)
}

func (m *mockAuth) Profile(ctx context.Context, username string) (*domain.Identity, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

type mockRegistrar struct {
	mock.Mock
}

func (m *mockRegistrar) Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegisterResult), args.Error(1)
}

// ============================================================================
// Helpers
// ============================================================================

const aliceToken = "alice-token"

var alice = domain.AuthenticatedIdentity{
	Username:      "alice",
	Email:         "alice@example.com",
	Authorities:   []string{string(domain.AuthorityUser)},
	Authenticated: true,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires the router with mocks. The resolver knows aliceToken
// and treats every other token as anonymous.
func newTestRouter(t *testing.T, auth *mockAuth, reg *mockRegistrar, limit middleware.RateLimitConfig) http.Handler {
	t.Helper()

	auth.On("ResolveIdentity", mock.Anything, aliceToken).Return(alice).Maybe()
	auth.On("ResolveIdentity", mock.Anything, mock.Anything).Return(domain.Anonymous()).Maybe()

	if limit.RPS == 0 {
		limit = middleware.RateLimitConfig{RPS: 1000, Burst: 1000}
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return NewRouter(ctx, RouterConfig{
		ServiceName:  "store-auth-test",
		Auth:         auth,
		Resolver:     auth,
		Registration: reg,
		Profiles:     auth,
		Health:       health.NewHandler(),
		Logger:       discardLogger(),
		CORS:         middleware.DefaultCORSConfig(),
		RateLimit:    limit,
	})
}

func doRequest(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage         `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
