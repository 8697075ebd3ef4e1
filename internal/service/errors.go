package service

import (
	"fmt"

	"github.com/Bvcott21/ai-store/internal/domain"
	apperrors "github.com/Bvcott21/ai-store/pkg/errors"
)

// Both unknown identifiers and wrong passwords produce this error so a
// caller cannot tell which accounts exist.
func credentialsError(cause error) error {
	return apperrors.Unauthorized("invalid username/email or password").
		WithCode("INVALID_CREDENTIALS").
		WithCause(cause)
}

func accountDisabledError() error {
	return apperrors.Forbidden("account is disabled, locked or expired").
		WithCode("ACCOUNT_DISABLED").
		WithCause(domain.ErrAccountDisabled)
}

func tooManyAttemptsError() error {
	return apperrors.TooManyRequests("too many failed login attempts, try again later").
		WithCode("TOO_MANY_ATTEMPTS")
}

func blankFieldError(field string) error {
	return apperrors.InvalidInput(field + " must not be blank").
		WithCode("VALIDATION_ERROR")
}

func passwordMismatchError() error {
	return apperrors.InvalidInput("password and confirmation do not match").
		WithCode("PASSWORD_MISMATCH").
		WithCause(domain.ErrPasswordMismatch)
}

func invalidAddressTypeError(value string) error {
	return apperrors.InvalidInput(fmt.Sprintf("invalid address type %q, expected one of HOME, WORK, BILLING, SHIPPING", value)).
		WithCode("INVALID_ADDRESS_TYPE").
		WithCause(domain.ErrInvalidAddressType)
}

func duplicateUsernameError(username string) error {
	return apperrors.AlreadyExists("user", "username", username).
		WithCode("DUPLICATE_USERNAME").
		WithCause(domain.ErrDuplicateUsername)
}

func duplicateEmailError(email string) error {
	return apperrors.AlreadyExists("user", "email", email).
		WithCode("DUPLICATE_EMAIL").
		WithCause(domain.ErrDuplicateEmail)
}
