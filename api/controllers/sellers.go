package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/adrianfloca/marketforge-backend/api/middleware"
	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/sellers"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

type sellerProfilePayload struct {
	StoreName        string `json:"storeName" validate:"required,max=128"`
	StoreDescription string `json:"storeDescription,omitempty"`
	StoreAddress     string `json:"storeAddress,omitempty"`
}

// SellerOnboard opens a store for the authenticated user and promotes the
// account to the seller role when it is still unassigned.
func SellerOnboard(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload sellerProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		seller, err := svc.AddSeller(ctx, sellers.AddSellerParams{
			UserID:           userID,
			StoreName:        payload.StoreName,
			StoreDescription: payload.StoreDescription,
			StoreAddress:     payload.StoreAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, seller)
	}
}

// SellerUpdateProfile edits the authenticated seller's store profile.
func SellerUpdateProfile(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload sellerProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		seller, err := svc.UpdateSeller(ctx, sellers.UpdateSellerParams{
			UserID:           userID,
			StoreName:        payload.StoreName,
			StoreDescription: payload.StoreDescription,
			StoreAddress:     payload.StoreAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, seller)
	}
}

// SellerInfo returns the public store profile view.
func SellerInfo(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		info, err := svc.GetSellerInfo(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

// SellerCreate stores a seller row as-is. This is the repository wire
// surface; onboarding goes through SellerOnboard.
func SellerCreate(repo sellers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var seller models.Seller
		if err := validators.DecodeJSONBody(r, &seller); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Create(ctx, &seller); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "seller not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, seller)
	}
}

func SellerDetail(repo sellers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		seller, err := repo.FindByUserID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "seller not found"))
			return
		}
		responses.WriteSuccess(w, seller)
	}
}

func SellerUpdate(repo sellers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var seller models.Seller
		if err := validators.DecodeJSONBody(r, &seller); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		seller.UserID = id

		if err := repo.Update(ctx, &seller); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "seller not found"))
			return
		}
		responses.WriteSuccess(w, seller)
	}
}

func SellerUpdateTrustScore(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			TrustScore decimal.Decimal `json:"trustScore"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.UpdateTrustScore(ctx, id, payload.TrustScore); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

func SellerAdjustFollowers(repo sellers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Delta int `json:"delta"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.AdjustFollowers(ctx, id, payload.Delta); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "seller not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

func SellerDelete(repo sellers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "seller not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
