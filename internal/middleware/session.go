package middleware

import (
	"errors"
	"net/http"

	"github.com/patrickwarner/pubreport/internal/session"
	"go.uber.org/zap"
)

// WithSession resolves the viewer once per request and stores it in the
// context. Requests without a usable session pass through anonymously; the
// handlers decide what an anonymous viewer may see.
func WithSession(resolver session.Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := resolver.Resolve(r)
			switch {
			case err == nil && s != nil:
				r = r.WithContext(session.WithSession(r.Context(), s))
			case err != nil && !errors.Is(err, session.ErrNoSession):
				LoggerFromRequest(r, logger).Warn("session lookup failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
		})
	}
}
