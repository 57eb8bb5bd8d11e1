package controllers

import (
	"net/http"
	"time"

	"github.com/adrianfloca/marketforge-backend/api/middleware"
	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/waitlist"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

// WaitlistEnqueue inserts a queue row with an explicit timestamp; wire
// surface for the remote repository. Buyers join through WaitlistJoin.
func WaitlistEnqueue(repo waitlist.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			BuyerID  int64     `json:"buyerId" validate:"required,gt=0"`
			JoinedAt time.Time `json:"joinedAt" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		joined, err := repo.Join(ctx, productID, payload.BuyerID, payload.JoinedAt)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "product not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"joined": joined})
	}
}

func WaitlistDequeue(repo waitlist.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		buyerID, err := pathID(r, "buyerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		removed, err := repo.Leave(ctx, productID, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "waitlist entry not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": removed})
	}
}

// WaitlistJoin queues the authenticated buyer and returns their rank.
// Rejoining keeps the original place.
func WaitlistJoin(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID := middleware.UserIDFromContext(ctx)
		if buyerID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		position, err := svc.Join(ctx, productID, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"position": position})
	}
}

func WaitlistLeave(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID := middleware.UserIDFromContext(ctx)
		if buyerID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Leave(ctx, productID, buyerID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"left": true})
	}
}

func WaitlistPosition(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		buyerID, err := pathID(r, "buyerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		position, err := svc.Position(ctx, productID, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"position": position})
	}
}

func WaitlistBuyers(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		queue, err := svc.ListBuyers(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, queue)
	}
}

func WaitlistProducts(svc waitlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.ListProducts(ctx, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
