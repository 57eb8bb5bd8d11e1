package auth

import (
	"net/http"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/config"
)

// WriteSessionCookie attaches the access token to the response as an
// HttpOnly cookie.
func WriteSessionCookie(w http.ResponseWriter, cfg config.JWTConfig, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.AccessTokenTTL() / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cfg config.JWTConfig, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
