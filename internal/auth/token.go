package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Bvcott21/ai-store/internal/domain"
)

// DefaultTokenExpiry is how long an issued token stays valid.
const DefaultTokenExpiry = 10 * time.Hour

// Claims is the JWT payload. Subject carries the username.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenCodec.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// TokenOption customizes a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

// TokenCodec issues and checks HS256 bearer tokens.
type TokenCodec struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenCodec returns a codec for cfg. A zero Expiry means DefaultTokenExpiry.
func NewTokenCodec(cfg TokenConfig, opts ...TokenOption) (*TokenCodec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultTokenExpiry
	}
	c := &TokenCodec{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for username valid for the configured expiry.
func (c *TokenCodec) Issue(username, email string) (string, error) {
	now := c.now().UTC()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *TokenCodec) key(*jwt.Token) (any, error) {
	return c.secret, nil
}

// ParseClaims checks the signature and algorithm only. Expired tokens still
// parse; use Verify to decide whether a token may be trusted.
func (c *TokenCodec) ParseClaims(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, c.key); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	return claims, nil
}

// ParseSubject returns the username a token was issued for.
func (c *TokenCodec) ParseSubject(token string) (string, error) {
	claims, err := c.ParseClaims(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}
	return claims.Subject, nil
}

// Verify reports whether token is correctly signed, unexpired and was issued
// for expectedUsername.
func (c *TokenCodec) Verify(token, expectedUsername string) bool {
	if token == "" || expectedUsername == "" {
		return false
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		jwt.WithSubject(expectedUsername),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &Claims{}, c.key)
	return err == nil
}
