package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Bvcott21/ai-store/internal/domain"
	"github.com/Bvcott21/ai-store/pkg/database"
	apperrors "github.com/Bvcott21/ai-store/pkg/errors"
)

const selectIdentity = `
	SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.phone_number,
	       u.enabled, u.locked, u.expired, u.created_at, u.updated_at,
	       a.id, a.street_line1, a.street_line2, a.city, a.state, a.zip_code, a.country, a.address_type
	FROM users u
	JOIN addresses a ON a.id = u.address_id`

const selectRoles = `
	SELECT r.id, r.authority
	FROM roles r
	JOIN user_roles ur ON ur.role_id = r.id
	WHERE ur.user_id = $1
	ORDER BY r.id`

// UserRepository implements repository.UserRepository on PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a UserRepository on db.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername loads the identity with its address and current roles.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, "FindUserByUsername", selectIdentity+` WHERE u.username = $1`, username)
}

// FindByEmail loads the identity registered with email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, "FindUserByEmail", selectIdentity+` WHERE u.email = $1`, email)
}

// FindByUsernameOrEmail matches identifier against both columns. When one
// account's username equals another account's email the username wins.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.Identity, error) {
	query := selectIdentity + `
	WHERE u.username = $1 OR u.email = $1
	ORDER BY (u.username = $1) DESC
	LIMIT 1`
	return r.findOne(ctx, "FindUserByUsernameOrEmail", query, identifier)
}

// ExistsByUsername reports whether username is taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "ExistsUserByUsername", `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail reports whether email is registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "ExistsUserByEmail", `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

// Count returns the number of identities.
func (r *UserRepository) Count(ctx context.Context) (n int64, err error) {
	const query = `SELECT COUNT(*) FROM users`
	ctx, end := database.TraceQuery(ctx, "CountUsers", query)
	defer func() { end(err) }()

	if err = conn(ctx, r.db).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Create inserts the address, the identity and its role links. Every role
// in identity.Roles must already carry its ID.
func (r *UserRepository) Create(ctx context.Context, identity *domain.Identity) error {
	if identity.Address == nil {
		return fmt.Errorf("create user %q: address is required", identity.Username)
	}

	return NewTransactor(r.db).InTransaction(ctx, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		if err := r.insertAddress(ctx, q, identity.Address); err != nil {
			return err
		}
		if err := r.insertUser(ctx, q, identity); err != nil {
			return err
		}
		for _, role := range identity.Roles {
			if _, err := q.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, identity.ID, role.ID); err != nil {
				return fmt.Errorf("link role %s: %w", role.Authority, err)
			}
		}
		return nil
	})
}

func (r *UserRepository) insertAddress(ctx context.Context, q querier, a *domain.Address) (err error) {
	const query = `
		INSERT INTO addresses (street_line1, street_line2, city, state, zip_code, country, address_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	ctx, end := database.TraceQuery(ctx, "CreateAddress", query)
	defer func() { end(err) }()

	err = q.QueryRow(ctx, query,
		a.StreetLine1, a.StreetLine2, a.City, a.State, a.ZipCode, a.Country, string(a.AddressType),
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *UserRepository) insertUser(ctx context.Context, q querier, u *domain.Identity) (err error) {
	const query = `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone_number,
		                   address_id, enabled, locked, expired)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	ctx, end := database.TraceQuery(ctx, "CreateUser", query)
	defer func() { end(err) }()

	err = q.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber,
		u.Address.ID, u.Enabled, u.Locked, u.Expired,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return fmt.Errorf("insert user: %w", dup)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) exists(ctx context.Context, op, query string, arg string) (found bool, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	if err = conn(ctx, r.db).QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}

func (r *UserRepository) findOne(ctx context.Context, op, query string, arg string) (_ *domain.Identity, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	q := conn(ctx, r.db)

	var (
		u           domain.Identity
		a           domain.Address
		addressType string
	)
	err = q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.PhoneNumber,
		&u.Enabled, &u.Locked, &u.Expired, &u.CreatedAt, &u.UpdatedAt,
		&a.ID, &a.StreetLine1, &a.StreetLine2, &a.City, &a.State, &a.ZipCode, &a.Country, &addressType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	a.AddressType = domain.AddressType(addressType)
	u.Address = &a

	roles, err := r.roles(ctx, q, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (r *UserRepository) roles(ctx context.Context, q querier, userID int64) ([]domain.Role, error) {
	rows, err := q.Query(ctx, selectRoles, userID)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var (
			role      domain.Role
			authority string
		)
		if err := rows.Scan(&role.ID, &authority); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		role.Authority = domain.Authority(authority)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}
