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

// RoleRepository implements repository.RoleRepository on PostgreSQL.
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a RoleRepository on db.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByAuthority returns apperrors.ErrNotFound for an unknown authority.
func (r *RoleRepository) FindByAuthority(ctx context.Context, authority domain.Authority) (_ *domain.Role, err error) {
	const query = `SELECT id FROM roles WHERE authority = $1`
	ctx, end := database.TraceQuery(ctx, "FindRoleByAuthority", query)
	defer func() { end(err) }()

	role := &domain.Role{Authority: authority}
	err = conn(ctx, r.db).QueryRow(ctx, query, string(authority)).Scan(&role.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find role %s: %w", authority, err)
	}
	return role, nil
}

// Save creates the role if missing and returns the stored row. An insert
// that loses a race to a concurrent one reads back the winner's row.
func (r *RoleRepository) Save(ctx context.Context, authority domain.Authority) (_ *domain.Role, err error) {
	if !authority.IsValid() {
		return nil, fmt.Errorf("save role: unknown authority %q", authority)
	}

	const query = `
		INSERT INTO roles (authority) VALUES ($1)
		ON CONFLICT (authority) DO NOTHING
		RETURNING id`
	spanCtx, end := database.TraceQuery(ctx, "SaveRole", query)

	role := &domain.Role{Authority: authority}
	err = conn(spanCtx, r.db).QueryRow(spanCtx, query, string(authority)).Scan(&role.ID)
	end(err)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, findErr := r.FindByAuthority(ctx, authority)
		if findErr != nil {
			return nil, fmt.Errorf("save role %s: %w", authority, findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("save role %s: %w", authority, err)
	}
	return role, nil
}
