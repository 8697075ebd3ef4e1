package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Bvcott21/ai-store/internal/domain"
	"github.com/Bvcott21/ai-store/pkg/httputil"
)

// ProfileReader loads stored identities.
type ProfileReader interface {
	Profile(ctx context.Context, username string) (*domain.Identity, error)
}

// UserHandler serves /api/v1/users.
type UserHandler struct {
	profiles ProfileReader
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(profiles ProfileReader, logger *slog.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, logger: logger}
}

// GetProfile handles GET /api/v1/users/me. The route requires an
// authenticated principal.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p := IdentityFromContext(r.Context())

	identity, err := h.profiles.Profile(r.Context(), p.Username)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, identity)
}
