package domain

import "errors"

var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidAddressType = errors.New("invalid address type")

	// ErrTokenInvalid covers malformed, forged and wrongly signed tokens.
	// It is handled inside the identity filter and never reaches a client.
	ErrTokenInvalid = errors.New("token invalid")
)
