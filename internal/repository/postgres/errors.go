package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Bvcott21/ai-store/internal/domain"
)

const (
	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_key"
)

// uniqueViolation returns the violated constraint name, if err is one.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// duplicateError maps a users unique violation to its domain error.
func duplicateError(err error) error {
	name, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	switch name {
	case constraintUsername:
		return domain.ErrDuplicateUsername
	case constraintEmail:
		return domain.ErrDuplicateEmail
	}
	return nil
}
