package controllers

import (
	"errors"
	"net/http"

	"github.com/adrianfloca/marketforge-backend/api/middleware"
	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/orders"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

type placeOrderPayload struct {
	Order   *models.Order        `json:"order" validate:"required"`
	Summary *models.OrderSummary `json:"summary,omitempty"`
}

type checkoutDetailsPayload struct {
	FullName       string `json:"fullName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Address        string `json:"address" validate:"required"`
	PostalCode     string `json:"postalCode,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type checkoutPayload struct {
	ProductID        int64                   `json:"productId" validate:"required,gt=0"`
	Quantity         int                     `json:"quantity" validate:"required,gte=1"`
	PaymentMethod    enums.PaymentMethod     `json:"paymentMethod" validate:"required"`
	OrderHistoryID   int64                   `json:"orderHistoryId,omitempty"`
	WarrantyTaxCents int64                   `json:"warrantyTaxCents" validate:"gte=0"`
	DeliveryFeeCents int64                   `json:"deliveryFeeCents" validate:"gte=0"`
	Details          *checkoutDetailsPayload `json:"details,omitempty"`
}

// OrderPlace writes the order and optional summary in one transaction; wire
// surface for the remote repository. Buyers purchase through OrderCheckout.
func OrderPlace(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload placeOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.PlaceOrder(ctx, payload.Order, payload.Summary); err != nil {
			if errors.Is(err, orders.ErrInsufficientStock) {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "insufficient stock"))
				return
			}
			responses.WriteError(ctx, logg, w, storeErr(err, "product not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placeOrderPayload{Order: payload.Order, Summary: payload.Summary})
	}
}

// OrderCheckout places an order for the authenticated buyer, pricing it from
// the current listing and snapshotting contact details when given.
func OrderCheckout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID := middleware.UserIDFromContext(ctx)
		if buyerID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params := orders.PlaceOrderParams{
			BuyerID:          buyerID,
			ProductID:        payload.ProductID,
			Quantity:         payload.Quantity,
			PaymentMethod:    payload.PaymentMethod,
			OrderHistoryID:   payload.OrderHistoryID,
			WarrantyTaxCents: payload.WarrantyTaxCents,
			DeliveryFeeCents: payload.DeliveryFeeCents,
		}
		if payload.Details != nil {
			params.Details = &orders.CheckoutDetails{
				FullName:       payload.Details.FullName,
				Email:          payload.Details.Email,
				PhoneNumber:    payload.Details.PhoneNumber,
				Address:        payload.Details.Address,
				PostalCode:     payload.Details.PostalCode,
				AdditionalInfo: payload.Details.AdditionalInfo,
			}
		}

		order, err := svc.PlaceOrder(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.GetOrder(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderListByBuyer serves the full history by default; from/to narrow the
// range, year selects a calendar year, months=3 or 6 a recent window.
func OrderListByBuyer(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		year, err := validators.ParseQueryInt(r, "year", 0, 1, 9999)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		months, err := validators.ParseQueryInt(r, "months", 0, 1, 12)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var orderRows []models.Order
		switch {
		case from != nil && to != nil:
			orderRows, err = svc.OrdersBetween(ctx, buyerID, *from, *to)
		case from != nil || to != nil:
			err = pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		case year > 0:
			orderRows, err = svc.OrdersByYear(ctx, buyerID, year)
		case months == 3:
			orderRows, err = svc.OrdersFromLastThreeMonths(ctx, buyerID)
		case months == 6:
			orderRows, err = svc.OrdersFromLastSixMonths(ctx, buyerID)
		case months > 0:
			err = pkgerrors.New(pkgerrors.CodeValidation, "months must be 3 or 6")
		default:
			orderRows, err = svc.ListOrders(ctx, buyerID)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderRows)
	}
}

func OrderSearch(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		orderRows, err := svc.SearchOrdersByProductName(ctx, buyerID, r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderRows)
	}
}

func OrderSummaryDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "summaryID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.GetSummary(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func OrderHistoryList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		buyerID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		histories, err := svc.ListHistories(ctx, buyerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, histories)
	}
}

func OrderHistoryProducts(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		historyID, err := pathID(r, "historyID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productRows, err := svc.ProductsFromOrderHistory(ctx, historyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, productRows)
	}
}
