package controllers

import (
	"net/http"
	"time"

	"github.com/adrianfloca/marketforge-backend/api/middleware"
	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/products"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
)

type listingPayload struct {
	Name        string            `json:"name" validate:"required,max=256"`
	Description string            `json:"description,omitempty"`
	PriceCents  int64             `json:"priceCents" validate:"gte=0"`
	Stock       int               `json:"stock" validate:"gte=0"`
	ProductType enums.ProductType `json:"productType" validate:"required"`
	Tags        []string          `json:"tags,omitempty"`
	StartDate   *time.Time        `json:"startDate,omitempty"`
	EndDate     *time.Time        `json:"endDate,omitempty"`
}

// ListingPublish creates a product listing owned by the authenticated seller.
func ListingPublish(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sellerID := middleware.UserIDFromContext(ctx)
		if sellerID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload listingPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.AddProduct(ctx, products.ProductParams{
			SellerID:    sellerID,
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Stock:       payload.Stock,
			ProductType: payload.ProductType,
			Tags:        payload.Tags,
			StartDate:   payload.StartDate,
			EndDate:     payload.EndDate,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListingRevise updates an existing listing; a restock here fans out
// availability notices to waitlisted buyers.
func ListingRevise(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sellerID := middleware.UserIDFromContext(ctx)
		if sellerID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload listingPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(ctx, products.ProductParams{
			ID:          id,
			SellerID:    sellerID,
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Stock:       payload.Stock,
			ProductType: payload.ProductType,
			Tags:        payload.Tags,
			StartDate:   payload.StartDate,
			EndDate:     payload.EndDate,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCreate stores a product row as-is; wire surface for the remote
// repository.
func ProductCreate(repo products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var product models.Product
		if err := validators.DecodeJSONBody(r, &product); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Create(ctx, &product); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "product not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductUpdate(repo products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var product models.Product
		if err := validators.DecodeJSONBody(r, &product); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product.ID = id

		if err := repo.Update(ctx, &product); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteProduct(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sellerID, err := validators.ParseQueryInt64(r, "sellerId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params := products.ListParams{Limit: limit, Cursor: r.URL.Query().Get("cursor")}
		if sellerID > 0 {
			params.SellerID = &sellerID
		}

		result, err := svc.ListProducts(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
