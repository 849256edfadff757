package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/motoquote/motoquote/internal/platform/httpx"
	"github.com/motoquote/motoquote/internal/shared"
)

// Middleware guards routes with bearer-token authentication and role checks.
type Middleware struct {
	service *Service
	logger  *slog.Logger
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(service *Service, logger *slog.Logger) *Middleware {
	return &Middleware{service: service, logger: logger}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireUser resolves the bearer token and stores the identity in context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.service.Identify(r.Context(), bearerToken(r))
		if err != nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireRole allows only callers holding one of the given roles. Admin
// always passes. Must be mounted inside RequireUser.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !identity.HasRole(roles...) {
				m.logger.Warn("role check failed",
					slog.String("path", r.URL.Path),
					slog.String("role", identity.Role))
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
