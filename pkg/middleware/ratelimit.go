package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	// RPS is the sustained number of requests per second per client.
	RPS float64
	// Burst is the bucket size.
	Burst int
	// TTL evicts clients not seen for this long. Defaults to 3m.
	TTL time.Duration
	// TrustForwardedFor keys clients by the first X-Forwarded-For hop
	// instead of RemoteAddr. Enable only behind a trusted proxy.
	TrustForwardedFor bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore holds one limiter per client key.
type visitorStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	nowFunc  func() time.Time
}

func newVisitorStore(cfg RateLimitConfig) *visitorStore {
	return &visitorStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		ttl:      cfg.TTL,
		nowFunc:  time.Now,
	}
}

func (s *visitorStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// run evicts stale visitors every ttl until ctx is cancelled.
func (s *visitorStore) run(ctx context.Context) {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *visitorStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.visitors, key)
		}
	}
}

func (s *visitorStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimit returns middleware enforcing a per-client token bucket and
// answering 429 RATE_LIMITED when the bucket is empty. The eviction goroutine
// stops when ctx is cancelled.
func RateLimit(ctx context.Context, cfg RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.TTL <= 0 {
		cfg.TTL = 3 * time.Minute
	}
	store := newVisitorStore(cfg)
	go store.run(ctx)

	return rateLimitWithStore(store, cfg.TrustForwardedFor, logger)
}

func rateLimitWithStore(store *visitorStore, trustXFF bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r, trustXFF)
			if !store.allow(key) {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", key),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the key used to bucket a request.
func clientIP(r *http.Request, trustXFF bool) string {
	if trustXFF {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
	}
	return remoteHost(r)
}
