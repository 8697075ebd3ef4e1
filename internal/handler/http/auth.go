package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Bvcott21/ai-store/internal/service"
	"github.com/Bvcott21/ai-store/pkg/httputil"
	"github.com/Bvcott21/ai-store/pkg/middleware"
)

// Authenticator is the part of service.AuthService the auth routes use.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, password string) (*service.LoginResult, error)
	Validate(ctx context.Context, token string) bool
}

// Registrar creates identities.
type Registrar interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error)
}

// AuthHandler serves /api/v1/auth.
type AuthHandler struct {
	auth         Authenticator
	registration Registrar
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth Authenticator, registration Registrar, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration, logger: logger}
}

// --- Request DTOs ---

// LoginRequest is the login form.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required,max=100"`
	Password        string `json:"password" validate:"required,max=100"`
}

// AddressRequest is the address part of RegisterRequest.
type AddressRequest struct {
	StreetLine1 string `json:"streetLine1" validate:"required,min=5,max=100"`
	StreetLine2 string `json:"streetLine2" validate:"omitempty,max=100"`
	City        string `json:"city" validate:"required,min=2,max=50,alphaspace"`
	State       string `json:"state" validate:"required,min=2,max=50"`
	ZipCode     string `json:"zipCode" validate:"required,zipcode"`
	Country     string `json:"country" validate:"required,min=2,max=50,alphaspace"`
	AddressType string `json:"addressType" validate:"required"`
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Email           string          `json:"email" validate:"required,email,max=100"`
	Username        string          `json:"username" validate:"required,max=50"`
	Password        string          `json:"password" validate:"required,min=8,max=100"`
	ConfirmPassword string          `json:"confirmPassword" validate:"required"`
	FirstName       string          `json:"firstName" validate:"required,min=2,max=50"`
	LastName        string          `json:"lastName" validate:"required,min=2,max=50"`
	PhoneNumber     string          `json:"phoneNumber" validate:"omitempty,phone"`
	Address         *AddressRequest `json:"address" validate:"required"`
}

func (req *RegisterRequest) input() service.RegisterInput {
	return service.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		Address: service.AddressInput{
			StreetLine1: req.Address.StreetLine1,
			StreetLine2: req.Address.StreetLine2,
			City:        req.Address.City,
			State:       req.Address.State,
			ZipCode:     req.Address.ZipCode,
			Country:     req.Address.Country,
			AddressType: req.Address.AddressType,
		},
	}
}

// --- Response types ---

// SessionResponse describes the caller as seen by the identity filter.
type SessionResponse struct {
	Username      string   `json:"username,omitempty"`
	Email         string   `json:"email,omitempty"`
	Authorities   []string `json:"authorities,omitempty"`
	Authenticated bool     `json:"authenticated"`
}

// VerifyResponse reports whether the presented token is valid.
type VerifyResponse struct {
	Authenticated bool `json:"authenticated"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Handlers ---

// decode writes the error response itself and reports whether to continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(w, r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.auth.Authenticate(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.registration.Register(r.Context(), req.input())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, res)
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless, so the
// client ends the session by discarding its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if p := IdentityFromContext(r.Context()); p.Authenticated {
		h.logger.InfoContext(r.Context(), "user logged out", slog.String("username", p.Username))
	}
	httputil.WriteData(w, http.StatusOK, MessageResponse{Message: "logged out, discard the token on the client"})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := IdentityFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, SessionResponse{
		Username:      p.Username,
		Email:         p.Email,
		Authorities:   p.Authorities,
		Authenticated: p.Authenticated,
	})
}

// Verify handles GET /api/v1/auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	valid := ok && h.auth.Validate(r.Context(), token)
	httputil.WriteData(w, http.StatusOK, VerifyResponse{Authenticated: valid})
}
