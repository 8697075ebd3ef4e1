package http

import (
	"context"
	"net/http"

	"github.com/Bvcott21/ai-store/internal/domain"
	"github.com/Bvcott21/ai-store/pkg/middleware"
)

type identityKey struct{}

// IdentityResolver turns a bearer token into a principal.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) domain.AuthenticatedIdentity
}

// WithIdentity stores principal in ctx.
func WithIdentity(ctx context.Context, principal domain.AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, principal)
}

// IdentityFromContext returns the request principal, or domain.Anonymous().
func IdentityFromContext(ctx context.Context) domain.AuthenticatedIdentity {
	if p, ok := ctx.Value(identityKey{}).(domain.AuthenticatedIdentity); ok {
		return p
	}
	return domain.Anonymous()
}

// IdentityFilter resolves the bearer token of each request and attaches the
// authenticated principal to the context. It never rejects a request: a
// missing or bad token leaves the request anonymous and later middleware such
// as middleware.RequireSubject decides whether that is acceptable.
func IdentityFilter(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if IdentityFromContext(ctx).Authenticated {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := middleware.BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal := resolver.ResolveIdentity(ctx, token)
			if principal.Authenticated {
				ctx = WithIdentity(ctx, principal)
				ctx = middleware.WithSubject(ctx, principal.Username)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
