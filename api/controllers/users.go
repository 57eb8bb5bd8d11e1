package controllers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/users"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
)

// userPayload mirrors the proxy repository's wire shape; the password hash
// travels explicitly because the model hides it from JSON.
type userPayload struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

// UserCreate stores a fully-populated user row. This is the repository wire
// surface; human signups go through the auth register endpoint instead.
func UserCreate(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload userPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user := payload.User
		user.PasswordHash = payload.PasswordHash
		if err := repo.Create(ctx, &user); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		role := enums.UserRole(r.URL.Query().Get("role"))
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.ListByRole(ctx, role, limit, r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func UserDetail(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.GetByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func UserByUsername(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username, err := url.PathUnescape(chi.URLParam(r, "username"))
		if err != nil || username == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "username is required"))
			return
		}

		user, err := svc.GetByUsername(ctx, username)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func UserByEmail(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		email, err := url.PathUnescape(chi.URLParam(r, "email"))
		if err != nil || email == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email is required"))
			return
		}

		user, err := repo.FindByEmail(ctx, email)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UserRecordDetail serves the full stored row, password hash included. This
// is the repository wire surface for reads; the proxy repository needs the
// hash back to authenticate, so these records routes stay behind the admin
// role while the human-facing lookups keep the hash hidden.
func UserRecordDetail(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := repo.FindByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, userPayload{User: *user, PasswordHash: user.PasswordHash})
	}
}

func UserRecordByUsername(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username, err := url.PathUnescape(chi.URLParam(r, "username"))
		if err != nil || username == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "username is required"))
			return
		}

		user, err := repo.FindByUsername(ctx, username)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, userPayload{User: *user, PasswordHash: user.PasswordHash})
	}
}

func UserRecordByEmail(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		email, err := url.PathUnescape(chi.URLParam(r, "email"))
		if err != nil || email == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email is required"))
			return
		}

		user, err := repo.FindByEmail(ctx, email)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, userPayload{User: *user, PasswordHash: user.PasswordHash})
	}
}

// UserUpdate replaces the stored row. A blank password hash keeps the
// current one so callers cannot accidentally wipe credentials.
func UserUpdate(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload userPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user := payload.User
		user.ID = id
		user.PasswordHash = payload.PasswordHash
		if user.PasswordHash == "" {
			existing, err := repo.FindByID(ctx, id)
			if err != nil {
				responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
				return
			}
			user.PasswordHash = existing.PasswordHash
		}

		if err := repo.Update(ctx, &user); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func UserAssignRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Role enums.UserRole `json:"role" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.AssignRole(ctx, id, payload.Role); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

func UserRecordLoginFailure(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		failed, err := repo.RecordLoginFailure(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, map[string]int{"failedLogins": failed})
	}
}

func UserRecordLoginSuccess(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			At time.Time `json:"at" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.RecordLoginSuccess(ctx, id, payload.At); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"recorded": true})
	}
}

func UserSetBan(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Banned bool       `json:"banned"`
			Until  *time.Time `json:"until,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.SetBan(ctx, id, payload.Banned, payload.Until); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "user not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

func UserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
