package controllers

import (
	"net/http"

	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
)

// NotificationCreate stores a notification row as-is; wire surface for the
// remote repository. Category and reference validation happens in the
// services that raise notifications.
func NotificationCreate(repo notifications.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var notification models.Notification
		if err := validators.DecodeJSONBody(r, &notification); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Create(ctx, &notification); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "notification not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, notification)
	}
}

func NotificationList(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		recipientID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, notifications.ListParams{
			RecipientID: recipientID,
			Limit:       limit,
			Cursor:      r.URL.Query().Get("cursor"),
			UnreadOnly:  r.URL.Query().Get("unread") == "true",
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// NotificationMarkRead reports both flags so remote callers can distinguish
// a missing row from an already-read one.
func NotificationMarkRead(repo notifications.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		recipientID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		notificationID, err := pathID(r, "notificationID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		mark, err := repo.MarkRead(ctx, recipientID, notificationID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "notification not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": mark.Updated, "found": mark.Found})
	}
}

func NotificationMarkAllRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		recipientID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.MarkAllRead(ctx, recipientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}
