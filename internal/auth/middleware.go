package auth

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/config"
)

// Middleware handles bearer token authentication for HTTP requests
type Middleware struct {
	tokens   *TokenService
	required bool
	logger   *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens:   NewTokenService(&cfg.Auth),
		required: cfg.Auth.Required,
		logger:   logger,
	}
}

// Authenticate validates the Authorization header when present.
// When auth is not required, anonymous requests pass through and are
// attributed to "system" in the activity log.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if m.required {
				http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		userCtx, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("user_name", userCtx.DisplayName),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}
