package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/adrianfloca/marketforge-backend/api/responses"
	pkgAuth "github.com/adrianfloca/marketforge-backend/pkg/auth"
	"github.com/adrianfloca/marketforge-backend/pkg/auth/session"
	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

// AuthParams configures the authentication middleware.
type AuthParams struct {
	JWT config.JWTConfig
	// ServiceToken, when non-empty, lets proxy repositories authenticate
	// with a static bearer instead of a user session.
	ServiceToken string
	Sessions     session.Checker
	Logger       *logger.Logger
}

// Auth validates a bearer token or the session cookie and seeds the request
// context with the caller's identity.
func Auth(params AuthParams) func(http.Handler) http.Handler {
	logg := params.Logger
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, params.JWT.CookieName)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if params.ServiceToken != "" &&
				subtle.ConstantTimeCompare([]byte(token), []byte(params.ServiceToken)) == 1 {
				ctx := WithRole(r.Context(), string(enums.UserRoleAdmin))
				if logg != nil {
					ctx = logg.WithActorRole(ctx, "service")
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(params.JWT, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if params.Sessions != nil {
				userID, ok, err := params.Sessions.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok || userID != claims.UserID {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			ctx = WithRole(ctx, string(claims.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID,
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request, cookieName string) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil {
			return strings.TrimSpace(cookie.Value)
		}
	}
	return ""
}
