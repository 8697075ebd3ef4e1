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

// AddressInput is the address submitted with a registration.
type AddressInput struct {
	StreetLine1 string
	StreetLine2 string
	City        string
	State       string
	ZipCode     string
	Country     string
	AddressType string
}

// RegisterInput holds the registration form.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	PhoneNumber     string
	Address         AddressInput
}

// RegisterResult describes the created identity and its first token.
type RegisterResult struct {
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Token       string         `json:"token"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	PhoneNumber string         `json:"phoneNumber,omitempty"`
	Address     domain.Address `json:"address"`
}

// EventPublisher announces completed registrations.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, identity *domain.Identity) error
}

// RegistrationService creates identities.
type RegistrationService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tx     repository.Transactor
	hasher auth.PasswordHasher
	tokens *auth.TokenCodec
	events EventPublisher
	logger *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	tx repository.Transactor,
	hasher auth.PasswordHasher,
	tokens *auth.TokenCodec,
	events EventPublisher,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		users:  users,
		roles:  roles,
		tx:     tx,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// Register validates in, then stores the address, the identity and its
// ROLE_USER link and issues a token in one transaction. Nothing is written
// when a check fails.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" {
		registrations.WithLabelValues(outcomeInvalidInput).Inc()
		return nil, blankFieldError("username")
	}
	if email == "" {
		registrations.WithLabelValues(outcomeInvalidInput).Inc()
		return nil, blankFieldError("email")
	}

	if in.Password != in.ConfirmPassword {
		registrations.WithLabelValues(outcomePasswordMismatch).Inc()
		return nil, passwordMismatchError()
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, s.failed(fmt.Errorf("check username: %w", err))
	}
	if taken {
		registrations.WithLabelValues(outcomeDuplicateUsername).Inc()
		return nil, duplicateUsernameError(username)
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, s.failed(fmt.Errorf("check email: %w", err))
	}
	if taken {
		registrations.WithLabelValues(outcomeDuplicateEmail).Inc()
		return nil, duplicateEmailError(email)
	}

	addressType, err := domain.ParseAddressType(in.Address.AddressType)
	if err != nil {
		registrations.WithLabelValues(outcomeInvalidAddressType).Inc()
		return nil, invalidAddressTypeError(in.Address.AddressType)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.failed(err)
	}

	identity := &domain.Identity{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Enabled:      true,
		Address: &domain.Address{
			StreetLine1: in.Address.StreetLine1,
			StreetLine2: in.Address.StreetLine2,
			City:        in.Address.City,
			State:       in.Address.State,
			ZipCode:     in.Address.ZipCode,
			Country:     in.Address.Country,
			AddressType: addressType,
		},
	}

	var token string
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		role, err := findOrCreateRole(ctx, s.roles, domain.AuthorityUser)
		if err != nil {
			return err
		}
		identity.Roles = []domain.Role{*role}

		if err := s.users.Create(ctx, identity); err != nil {
			return err
		}

		token, err = s.tokens.Issue(identity.Username, identity.Email)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		registrations.WithLabelValues(outcomeDuplicateUsername).Inc()
		return nil, duplicateUsernameError(username)
	case errors.Is(err, domain.ErrDuplicateEmail):
		registrations.WithLabelValues(outcomeDuplicateEmail).Inc()
		return nil, duplicateEmailError(email)
	case err != nil:
		return nil, s.failed(fmt.Errorf("register %s: %w", username, err))
	}

	registrations.WithLabelValues(outcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", identity.ID),
		slog.String("username", identity.Username),
	)

	if err := s.events.PublishUserRegistered(ctx, identity); err != nil {
		s.logger.WarnContext(ctx, "publish user.registered",
			slog.String("username", identity.Username),
			slog.String("error", err.Error()),
		)
	}

	return &RegisterResult{
		Username:    identity.Username,
		Email:       identity.Email,
		Token:       token,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		PhoneNumber: identity.PhoneNumber,
		Address:     *identity.Address,
	}, nil
}

// findOrCreateRole looks the role up and inserts it only when the lookup
// misses.
func findOrCreateRole(ctx context.Context, roles repository.RoleRepository, authority domain.Authority) (*domain.Role, error) {
	role, err := roles.FindByAuthority(ctx, authority)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return roles.Save(ctx, authority)
}

func (s *RegistrationService) failed(err error) error {
	registrations.WithLabelValues(outcomeError).Inc()
	return err
}
