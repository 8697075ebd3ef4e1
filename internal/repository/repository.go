package repository

import (
	"context"

	"github.com/Bvcott21/ai-store/internal/domain"
)

// UserRepository persists identities. Finders return apperrors.ErrNotFound
// when no row matches.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)

	// FindByUsernameOrEmail matches either column, preferring a username match.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.Identity, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts the address, the identity and its role links as one
	// unit and fills in generated IDs and timestamps. A unique violation is
	// reported as domain.ErrDuplicateUsername or domain.ErrDuplicateEmail.
	Create(ctx context.Context, identity *domain.Identity) error

	Count(ctx context.Context) (int64, error)
}

// RoleRepository persists roles.
type RoleRepository interface {
	FindByAuthority(ctx context.Context, authority domain.Authority) (*domain.Role, error)

	// Save returns the role for authority, creating it if needed.
	Save(ctx context.Context, authority domain.Authority) (*domain.Role, error)
}

// Transactor runs fn in a transaction carried by the context passed to fn.
// Repository calls made with that context join the transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LoginAttemptStore counts recent failed logins per identifier.
type LoginAttemptStore interface {
	Failures(ctx context.Context, identifier string) (int64, error)
	// RecordFailure increments the count and returns the new value.
	RecordFailure(ctx context.Context, identifier string) (int64, error)
	Reset(ctx context.Context, identifier string) error
}
