package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Bvcott21/ai-store/internal/domain"
	"github.com/Bvcott21/ai-store/internal/repository"
	apperrors "github.com/Bvcott21/ai-store/pkg/errors"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

// Seeder loads demo accounts into an empty store.
type Seeder struct {
	users        repository.UserRepository
	roles        repository.RoleRepository
	registration *RegistrationService
	logger       *slog.Logger
}

// NewSeeder creates a Seeder that registers accounts through registration.
func NewSeeder(users repository.UserRepository, roles repository.RoleRepository, registration *RegistrationService, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, registration: registration, logger: logger}
}

// Seed ensures ROLE_USER exists and, when the store has no identities,
// registers n demo accounts named user1..userN. It returns how many were
// created. Running it again on a populated store creates nothing.
func (s *Seeder) Seed(ctx context.Context, n int) (int, error) {
	if _, err := findOrCreateRole(ctx, s.roles, domain.AuthorityUser); err != nil {
		return 0, fmt.Errorf("seed role: %w", err)
	}

	existing, err := s.users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if existing > 0 {
		s.logger.InfoContext(ctx, "store already populated, skipping seed", slog.Int64("users", existing))
		return 0, nil
	}

	types := domain.AddressTypes()
	created := 0
	for i := 1; i <= n; i++ {
		in := RegisterInput{
			Username:        fmt.Sprintf("user%d", i),
			Email:           fmt.Sprintf("user%d@example.com", i),
			Password:        DemoPassword,
			ConfirmPassword: DemoPassword,
			FirstName:       fmt.Sprintf("First%d", i),
			LastName:        fmt.Sprintf("Last%d", i),
			PhoneNumber:     fmt.Sprintf("+1555000%04d", i),
			Address: AddressInput{
				StreetLine1: fmt.Sprintf("%d Market Street", 100+i),
				City:        "Springfield",
				State:       "IL",
				ZipCode:     fmt.Sprintf("627%02d", i),
				Country:     "USA",
				AddressType: string(types[(i-1)%len(types)]),
			},
		}

		_, err := s.registration.Register(ctx, in)
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.InfoContext(ctx, "demo user exists", slog.String("username", in.Username))
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", in.Username, err)
		}
		created++
	}

	s.logger.InfoContext(ctx, "demo users seeded", slog.Int("created", created))
	return created, nil
}
