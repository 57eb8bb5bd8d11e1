package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/users"
	pkgAuth "github.com/adrianfloca/marketforge-backend/pkg/auth"
	"github.com/adrianfloca/marketforge-backend/pkg/auth/session"
	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

// sessionRegistry is the write surface of the session manager used by the
// auth handlers.
type sessionRegistry interface {
	Create(ctx context.Context, accessID string, userID int64) error
	Revoke(ctx context.Context, accessID string) error
}

type registerPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone,omitempty"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthRegister creates an account. New users start unassigned; buyer and
// seller profiles promote the role later.
func AuthRegister(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload registerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Register(ctx, users.RegisterParams{
			Username: payload.Username,
			Email:    payload.Email,
			Password: payload.Password,
			Phone:    payload.Phone,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AuthLogin verifies credentials, registers a session, and delivers the JWT
// both in the body and as an HttpOnly cookie.
func AuthLogin(svc users.Service, sessions sessionRegistry, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Authenticate(ctx, payload.Username, payload.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		accessID := session.NewAccessID()
		token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
			JTI:      accessID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		if err := sessions.Create(ctx, accessID, user.ID); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session"))
			return
		}

		pkgAuth.WriteSessionCookie(w, cfg.JWT, token, cfg.App.IsProd())
		responses.WriteSuccess(w, loginResponse{Token: token, User: user})
	}
}

// AuthLogout revokes the current session and expires the cookie.
func AuthLogout(sessions sessionRegistry, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := tokenFromRequest(r, cfg.JWT.CookieName)
		if token == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg.JWT, token)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if claims.ID != "" {
			if err := sessions.Revoke(ctx, claims.ID); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
				return
			}
		}

		pkgAuth.ClearSessionCookie(w, cfg.JWT, cfg.App.IsProd())
		responses.WriteSuccess(w, map[string]bool{"loggedOut": true})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
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
