package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Bvcott21/ai-store/internal/auth"
	"github.com/Bvcott21/ai-store/internal/domain"
	"github.com/Bvcott21/ai-store/internal/repository"
	apperrors "github.com/Bvcott21/ai-store/pkg/errors"
)

// LoginResult is returned by a successful Authenticate.
type LoginResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// AuthService verifies credentials and resolves bearer tokens.
type AuthService struct {
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	tokens      *auth.TokenCodec
	attempts    repository.LoginAttemptStore
	maxAttempts int64
	logger      *slog.Logger
}

// NewAuthService creates an AuthService. A maxAttempts of zero disables
// login throttling.
func NewAuthService(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenCodec,
	attempts repository.LoginAttemptStore,
	maxAttempts int64,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		attempts:    attempts,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Authenticate checks identifier (a username or an email) and password and
// issues a token. Unknown identifiers and wrong passwords return the same
// INVALID_CREDENTIALS error.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)

	if !s.admit(ctx, identifier) {
		loginAttempts.WithLabelValues(outcomeThrottled).Inc()
		s.logger.WarnContext(ctx, "login throttled", slog.String("identifier", identifier))
		return nil, tooManyAttemptsError()
	}

	identity, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.loginFailed(ctx, identifier, "identity_not_found")
		return nil, credentialsError(domain.ErrIdentityNotFound)
	}
	if err != nil {
		loginAttempts.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("find identity: %w", err)
	}

	if !s.hasher.Verify(password, identity.PasswordHash) {
		s.loginFailed(ctx, identifier, "invalid_password")
		return nil, credentialsError(domain.ErrInvalidCredentials)
	}

	if err := s.attempts.Reset(ctx, identifier); err != nil {
		s.logger.WarnContext(ctx, "reset login failures", slog.String("error", err.Error()))
	}

	if !identity.CanAuthenticate() {
		loginAttempts.WithLabelValues(outcomeDisabled).Inc()
		s.logger.WarnContext(ctx, "login refused for inactive account",
			slog.String("username", identity.Username),
			slog.Bool("enabled", identity.Enabled),
			slog.Bool("locked", identity.Locked),
			slog.Bool("expired", identity.Expired),
		)
		return nil, accountDisabledError()
	}

	token, err := s.tokens.Issue(identity.Username, identity.Email)
	if err != nil {
		loginAttempts.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	loginAttempts.WithLabelValues(outcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "user logged in", slog.String("username", identity.Username))

	return &LoginResult{Username: identity.Username, Email: identity.Email, Token: token}, nil
}

// admit charges the attempt to identifier before the password is checked and
// refuses it once the count from the increment passes maxAttempts. Parallel
// attempts therefore cannot verify more than maxAttempts passwords per window.
// A verified password clears the count. Store errors fail open.
func (s *AuthService) admit(ctx context.Context, identifier string) bool {
	if s.maxAttempts <= 0 {
		return true
	}
	n, err := s.attempts.Failures(ctx, identifier)
	if err != nil {
		s.logger.WarnContext(ctx, "read login failures", slog.String("error", err.Error()))
		return true
	}
	if n >= s.maxAttempts {
		return false
	}
	n, err = s.attempts.RecordFailure(ctx, identifier)
	if err != nil {
		s.logger.WarnContext(ctx, "record login attempt", slog.String("error", err.Error()))
		return true
	}
	return n <= s.maxAttempts
}

func (s *AuthService) loginFailed(ctx context.Context, identifier, reason string) {
	loginAttempts.WithLabelValues(outcomeInvalidCredentials).Inc()
	s.logger.InfoContext(ctx, "login failed",
		slog.String("identifier", identifier),
		slog.String("reason", reason),
	)
}

// ResolveIdentity turns a bearer token into a principal. It re-reads the
// identity so role and account changes apply to tokens already issued. Any
// failure yields domain.Anonymous().
func (s *AuthService) ResolveIdentity(ctx context.Context, token string) domain.AuthenticatedIdentity {
	if token == "" {
		return domain.Anonymous()
	}

	username, err := s.tokens.ParseSubject(token)
	if err != nil {
		s.logger.DebugContext(ctx, "token rejected", slog.String("reason", "unparseable"))
		return domain.Anonymous()
	}

	identity, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.DebugContext(ctx, "token rejected",
			slog.String("reason", "unknown_subject"),
			slog.String("username", username),
		)
		return domain.Anonymous()
	}
	if err != nil {
		s.logger.WarnContext(ctx, "resolve identity",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return domain.Anonymous()
	}

	if !s.tokens.Verify(token, identity.Username) {
		s.logger.DebugContext(ctx, "token rejected",
			slog.String("reason", "verification_failed"),
			slog.String("username", username),
		)
		return domain.Anonymous()
	}

	if !identity.CanAuthenticate() {
		s.logger.DebugContext(ctx, "token rejected",
			slog.String("reason", "account_inactive"),
			slog.String("username", username),
		)
		return domain.Anonymous()
	}

	return identity.Principal()
}

// Validate reports whether token is a currently valid token for the subject
// it names. It does not consult the credential store.
func (s *AuthService) Validate(_ context.Context, token string) bool {
	username, err := s.tokens.ParseSubject(token)
	if err != nil {
		return false
	}
	return s.tokens.Verify(token, username)
}

// Profile returns the stored identity for username.
func (s *AuthService) Profile(ctx context.Context, username string) (*domain.Identity, error) {
	identity, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("user", username)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return identity, nil
}
