package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:login_failures:"

// LoginAttemptStore counts failed logins per identifier in Redis. Each
// counter expires window after its first failure.
type LoginAttemptStore struct {
	client *goredis.Client
	window time.Duration
}

// NewLoginAttemptStore creates a store on client.
func NewLoginAttemptStore(client *goredis.Client, window time.Duration) *LoginAttemptStore {
	return &LoginAttemptStore{client: client, window: window}
}

// key normalizes identifier so "Alice" and " alice " share a counter.
func key(identifier string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(identifier))
}

// Failures returns the failures recorded in the current window.
func (s *LoginAttemptStore) Failures(ctx context.Context, identifier string) (int64, error) {
	n, err := s.client.Get(ctx, key(identifier)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get login failures: %w", err)
	}
	return n, nil
}

// RecordFailure increments the counter and returns the new count. The
// window starts at the first failure and is not extended by later ones.
func (s *LoginAttemptStore) RecordFailure(ctx context.Context, identifier string) (int64, error) {
	k := key(identifier)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("record login failure: %w", err)
	}
	return incr.Val(), nil
}

// Reset clears the counter after a successful login.
func (s *LoginAttemptStore) Reset(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, key(identifier)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}

// NopLoginAttemptStore never throttles.
type NopLoginAttemptStore struct{}

func (NopLoginAttemptStore) Failures(context.Context, string) (int64, error)      { return 0, nil }
func (NopLoginAttemptStore) RecordFailure(context.Context, string) (int64, error) { return 0, nil }
func (NopLoginAttemptStore) Reset(context.Context, string) error                  { return nil }
