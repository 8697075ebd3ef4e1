package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Bvcott21/ai-store/internal/domain"
	apperrors "github.com/Bvcott21/ai-store/pkg/errors"
	"github.com/Bvcott21/ai-store/pkg/middleware"
)

func TestGetProfile_RequiresAuthentication(t *testing.T) {
	auth, reg := new(mockAuth), new(mockRegistrar)
	h := newTestRouter(t, auth, reg, middleware.RateLimitConfig{})

	rec := doRequest(h, http.MethodGet, "/api/v1/users/me", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	auth.AssertNotCalled(t, "Profile", mock.Anything, mock.Anything)
}

func TestGetProfile_ReturnsIdentityWithoutHash(t *testing.T) {
	auth, reg := new(mockAuth), new(mockRegistrar)
	auth.On("Profile", mock.Anything, "alice").Return(&domain.Identity{
		ID:           7,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$secrethash",
		FirstName:    "Alice",
		Roles:        []domain.Role{{ID: 1, Authority: domain.AuthorityUser}},
		Enabled:      true,
	}, nil)
	h := newTestRouter(t, auth, reg, middleware.RateLimitConfig{})

	rec := doRequest(h, http.MethodGet, "/api/v1/users/me", "", aliceToken)

	require.Equal(t, http.StatusOK, rec.Code)
	var res domain.Identity
	decodeData(t, rec, &res)
	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, "alice", res.Username)
	assert.NotContains(t, rec.Body.String(), "secrethash")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestGetProfile_NotFound(t *testing.T) {
	auth, reg := new(mockAuth), new(mockRegistrar)
	auth.On("Profile", mock.Anything, "alice").Return(nil, apperrors.NotFound("user", "alice"))
	h := newTestRouter(t, auth, reg, middleware.RateLimitConfig{})

	rec := doRequest(h, http.MethodGet, "/api/v1/users/me", "", aliceToken)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
