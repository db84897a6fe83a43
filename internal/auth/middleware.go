package auth

import (
	"errors"
	"net/http"
	"strings"

	apperrors "rezerv/pkg/errors"
	pkghttp "rezerv/pkg/http"
	"rezerv/pkg/logger"
)

// Authenticate verifies the bearer token and attaches the principal to the
// request context. Paths under a skip prefix (auth endpoints, health checks)
// pass through untouched.
func Authenticate(tm *TokenManager, log *logger.Logger, skipPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, log, apperrors.Unauthorized("Missing Authorization header"))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, log, apperrors.Unauthorized("Authorization header must be a bearer token"))
				return
			}

			claims, err := tm.Parse(token)
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, ErrExpiredToken) {
					msg = "Token expired"
				}
				writeAuthError(w, log, apperrors.Unauthorized(msg))
				return
			}

			principal := &Principal{
				UserID: claims.UserID,
				Role:   claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequirePrincipal pulls the caller from the context, writing a 401 when the
// request slipped past authentication without one.
func RequirePrincipal(w http.ResponseWriter, r *http.Request, log *logger.Logger) (*Principal, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeAuthError(w, log, apperrors.Unauthorized("Authentication required"))
		return nil, false
	}
	return principal, true
}

// RequireAdmin is RequirePrincipal plus an admin role check.
func RequireAdmin(w http.ResponseWriter, r *http.Request, log *logger.Logger) (*Principal, bool) {
	principal, ok := RequirePrincipal(w, r, log)
	if !ok {
		return nil, false
	}
	if !principal.IsAdmin() {
		writeAuthError(w, log, apperrors.Forbidden("Administrator role required"))
		return nil, false
	}
	return principal, true
}

func writeAuthError(w http.ResponseWriter, log *logger.Logger, err error) {
	if writeErr := pkghttp.WriteError(w, err); writeErr != nil {
		log.Error("failed to write auth error response", "error", writeErr)
	}
}
