package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Bvcott21/ai-store/internal/domain"
	"github.com/Bvcott21/ai-store/pkg/middleware"
)

// captured records what the identity filter left in the request context.
type captured struct {
	identity domain.AuthenticatedIdentity
	subject  string
	called   bool
}

func (c *captured) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.identity = IdentityFromContext(r.Context())
		c.subject = middleware.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestIdentityFromContext_DefaultsToAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	p := IdentityFromContext(req.Context())

	assert.False(t, p.Authenticated)
	assert.Empty(t, p.Username)
}

func TestIdentityFilter_ValidTokenAttachesPrincipal(t *testing.T) {
	resolver := new(mockAuth)
	resolver.On("ResolveIdentity", mock.Anything, aliceToken).Return(alice)

	var c captured
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	IdentityFilter(resolver)(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, c.called)
	assert.Equal(t, alice, c.identity)
	assert.Equal(t, "alice", c.subject)
	resolver.AssertExpectations(t)
}

func TestIdentityFilter_NoTokenSkipsResolution(t *testing.T) {
	resolver := new(mockAuth)

	var c captured
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	IdentityFilter(resolver)(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, c.called)
	assert.False(t, c.identity.Authenticated)
	assert.Empty(t, c.subject)
	resolver.AssertNotCalled(t, "ResolveIdentity", mock.Anything, mock.Anything)
}

func TestIdentityFilter_BadTokenStaysAnonymousAndContinues(t *testing.T) {
	resolver := new(mockAuth)
	resolver.On("ResolveIdentity", mock.Anything, "garbage").Return(domain.Anonymous())

	var c captured
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	IdentityFilter(resolver)(c.handler()).ServeHTTP(rec, req)

	assert.True(t, c.called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, c.identity.Authenticated)
	assert.Empty(t, c.subject)
}

func TestIdentityFilter_NonBearerSchemeIgnored(t *testing.T) {
	resolver := new(mockAuth)

	var c captured
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic YWxpY2U6c2VjcmV0")
	IdentityFilter(resolver)(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, c.called)
	assert.False(t, c.identity.Authenticated)
	resolver.AssertNotCalled(t, "ResolveIdentity", mock.Anything, mock.Anything)
}

func TestIdentityFilter_ExistingPrincipalNotReplaced(t *testing.T) {
	resolver := new(mockAuth)

	var c captured
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	req = req.WithContext(WithIdentity(req.Context(), alice))
	IdentityFilter(resolver)(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, alice, c.identity)
	resolver.AssertNotCalled(t, "ResolveIdentity", mock.Anything, mock.Anything)
}
