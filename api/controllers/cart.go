package controllers

import (
	"net/http"

	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/cart"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			ProductID int64 `json:"productId" validate:"required,gt=0"`
			Quantity  int   `json:"quantity" validate:"required,gte=1"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddItem(ctx, buyerID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func CartSetQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Quantity int `json:"quantity" validate:"required,gte=1"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.SetQuantity(ctx, buyerID, productID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

// CartRemoveItem reports the removal flag instead of failing on a missing
// line; remote callers decide what a false means.
func CartRemoveItem(repo cart.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		removed, err := repo.RemoveItem(ctx, buyerID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "cart item not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": removed})
	}
}

func CartClear(repo cart.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cleared, err := repo.Clear(ctx, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "cart not found"))
			return
		}
		responses.WriteSuccess(w, map[string]int64{"cleared": cleared})
	}
}

// CartLines returns the bare joined lines; CartSummary adds line and cart
// totals on top.
func CartLines(repo cart.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := repo.List(ctx, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "cart not found"))
			return
		}
		responses.WriteSuccess(w, lines)
	}
}

func CartTotal(repo cart.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		total, err := repo.Total(ctx, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "cart not found"))
			return
		}
		responses.WriteSuccess(w, map[string]int64{"totalCents": total})
	}
}

func CartSummary(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.GetCart(ctx, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
