package controllers

import (
	"net/http"

	"github.com/adrianfloca/marketforge-backend/api/middleware"
	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/buyers"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

type buyerProfilePayload struct {
	FirstName       string         `json:"firstName" validate:"required,max=64"`
	LastName        string         `json:"lastName" validate:"required,max=64"`
	ShippingAddress models.Address `json:"shippingAddress"`
	BillingAddress  models.Address `json:"billingAddress"`
	UseSameAddress  bool           `json:"useSameAddress"`
}

// BuyerOnboard creates a buyer profile for the authenticated user and
// promotes the account to the buyer role when it is still unassigned.
func BuyerOnboard(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload buyerProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		buyer, err := svc.CreateBuyer(ctx, buyers.CreateBuyerParams{
			UserID:          userID,
			FirstName:       payload.FirstName,
			LastName:        payload.LastName,
			ShippingAddress: payload.ShippingAddress,
			BillingAddress:  payload.BillingAddress,
			UseSameAddress:  payload.UseSameAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, buyer)
	}
}

// BuyerUpdateProfile edits the authenticated buyer's profile.
func BuyerUpdateProfile(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload buyerProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		buyer, err := svc.UpdateBuyer(ctx, buyers.UpdateBuyerParams{
			UserID:          userID,
			FirstName:       payload.FirstName,
			LastName:        payload.LastName,
			ShippingAddress: payload.ShippingAddress,
			BillingAddress:  payload.BillingAddress,
			UseSameAddress:  payload.UseSameAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, buyer)
	}
}

// BuyerProfile returns the composite view: account, buyer row and linkages.
func BuyerProfile(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := svc.GetProfile(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// BuyerCreate stores a buyer row as-is. This is the repository wire surface;
// onboarding goes through BuyerOnboard.
func BuyerCreate(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var buyer models.Buyer
		if err := validators.DecodeJSONBody(r, &buyer); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Create(ctx, &buyer); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "buyer not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, buyer)
	}
}

func BuyerDetail(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		buyer, err := repo.FindByUserID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "buyer not found"))
			return
		}
		responses.WriteSuccess(w, buyer)
	}
}

func BuyerUpdate(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var buyer models.Buyer
		if err := validators.DecodeJSONBody(r, &buyer); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		buyer.UserID = id

		if err := repo.Update(ctx, &buyer); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "buyer not found"))
			return
		}
		responses.WriteSuccess(w, buyer)
	}
}

func BuyerDelete(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "buyer not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func BuyerSearchByShippingAddress(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		q := r.URL.Query()
		address := models.Address{
			StreetLine: q.Get("streetLine"),
			City:       q.Get("city"),
			Country:    q.Get("country"),
			PostalCode: q.Get("postalCode"),
		}

		found, err := svc.FindBuyersWithShippingAddress(ctx, address)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// BuyerRequestLinkage files a linkage request from the authenticated buyer.
func BuyerRequestLinkage(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload struct {
			ReceivingBuyerID int64 `json:"receivingBuyerId" validate:"required,gt=0"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		linkage, err := svc.RequestLinkage(ctx, userID, payload.ReceivingBuyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, linkage)
	}
}

// BuyerRespondLinkage accepts or rejects a pending linkage addressed to the
// authenticated buyer.
func BuyerRespondLinkage(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		linkageID, err := pathID(r, "linkageID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Accept bool `json:"accept"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RespondLinkage(ctx, userID, linkageID, payload.Accept); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

func BuyerListLinkages(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		linkages, err := svc.ListLinkages(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, linkages)
	}
}

// LinkageCreate stores a linkage row as-is; wire surface for the remote
// repository.
func LinkageCreate(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var linkage models.BuyerLinkage
		if err := validators.DecodeJSONBody(r, &linkage); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.CreateLinkage(ctx, &linkage); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "linkage not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, linkage)
	}
}

func LinkageDetail(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "linkageID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		linkage, err := repo.FindLinkage(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "linkage not found"))
			return
		}
		responses.WriteSuccess(w, linkage)
	}
}

func LinkageBetween(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerA, err := validators.ParseQueryInt64(r, "buyerA")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		buyerB, err := validators.ParseQueryInt64(r, "buyerB")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if buyerA <= 0 || buyerB <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "buyerA and buyerB are required"))
			return
		}

		linkage, err := repo.FindLinkageBetween(ctx, buyerA, buyerB)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "linkage not found"))
			return
		}
		responses.WriteSuccess(w, linkage)
	}
}

func LinkageSetStatus(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "linkageID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Status enums.LinkageStatus `json:"status" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.UpdateLinkageStatus(ctx, id, payload.Status); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "linkage not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

// BuyerFollowSeller starts following on behalf of the authenticated buyer;
// the notification and follower count are handled by the service.
func BuyerFollowSeller(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		sellerID, err := pathID(r, "sellerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.FollowSeller(ctx, userID, sellerID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"following": true})
	}
}

func BuyerUnfollowSeller(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		sellerID, err := pathID(r, "sellerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.UnfollowSeller(ctx, userID, sellerID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"following": false})
	}
}

// FollowingCreate writes the raw following edge; wire surface for the remote
// repository, which drives notifications on its own side.
func FollowingCreate(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sellerID, err := pathID(r, "sellerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := repo.Follow(ctx, buyerID, sellerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "buyer not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"created": created})
	}
}

func FollowingDelete(repo buyers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sellerID, err := pathID(r, "sellerID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		removed, err := repo.Unfollow(ctx, buyerID, sellerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "buyer not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": removed})
	}
}

func BuyerListFollowedSellers(svc buyers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		followed, err := svc.ListFollowedSellers(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, followed)
	}
}
