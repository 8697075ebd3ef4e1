package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Bvcott21/ai-store/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// username, trace_id and span_id and stores it via logger.NewContext.
// Handlers retrieve it with logger.FromContext.
//
// Mount it after RequestLogging, Tracing and whatever middleware resolves
// the subject, so every field is available.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if subject := SubjectFromContext(ctx); subject != "" {
				ctx = logger.WithUsername(ctx, subject)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
