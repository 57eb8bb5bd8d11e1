package controllers

import (
	"net/http"
	"time"

	"github.com/adrianfloca/marketforge-backend/api/responses"
	"github.com/adrianfloca/marketforge-backend/api/validators"
	"github.com/adrianfloca/marketforge-backend/internal/tracking"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
)

// TrackingStart opens a shipment record and writes the initial checkpoint.
func TrackingStart(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			EstimatedDeliveryDate time.Time `json:"estimatedDeliveryDate" validate:"required"`
			DeliveryAddress       string    `json:"deliveryAddress" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tracked, err := svc.StartTracking(ctx, tracking.StartTrackingParams{
			OrderID:               orderID,
			EstimatedDeliveryDate: payload.EstimatedDeliveryDate,
			DeliveryAddress:       payload.DeliveryAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tracked)
	}
}

// TrackedOrderCreate stores a tracked-order row as-is; wire surface for the
// remote repository.
func TrackedOrderCreate(repo tracking.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var tracked models.TrackedOrder
		if err := validators.DecodeJSONBody(r, &tracked); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := repo.Create(ctx, &tracked); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "tracked order not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tracked)
	}
}

func TrackedOrderDetail(repo tracking.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tracked, err := repo.FindByID(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "tracked order not found"))
			return
		}
		responses.WriteSuccess(w, tracked)
	}
}

func TrackingByOrder(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tracked, err := svc.GetByOrder(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, tracked)
	}
}

// TrackedOrderUpdateDelivery overwrites the estimate from a full row; wire
// surface for the remote repository.
func TrackedOrderUpdateDelivery(repo tracking.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var tracked models.TrackedOrder
		if err := validators.DecodeJSONBody(r, &tracked); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		tracked.ID = id

		if err := repo.UpdateEstimatedDelivery(ctx, id, &tracked); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "tracked order not found"))
			return
		}
		responses.WriteSuccess(w, tracked)
	}
}

// TrackingReschedule moves the delivery estimate, optionally with a new
// address.
func TrackingReschedule(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			EstimatedDeliveryDate time.Time `json:"estimatedDeliveryDate" validate:"required"`
			DeliveryAddress       string    `json:"deliveryAddress,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tracked, err := svc.UpdateEstimatedDelivery(ctx, id, payload.EstimatedDeliveryDate, payload.DeliveryAddress)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, tracked)
	}
}

// CheckpointAppend stores a checkpoint row as-is; wire surface for the
// remote repository. Operational advances go through CheckpointAdvance.
func CheckpointAppend(repo tracking.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var checkpoint models.OrderCheckpoint
		if err := validators.DecodeJSONBody(r, &checkpoint); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		checkpoint.TrackedOrderID = id

		if err := repo.AppendCheckpoint(ctx, &checkpoint); err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "tracked order not found"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkpoint)
	}
}

// CheckpointAdvance appends the next status in the progression; an omitted
// status advances one step automatically.
func CheckpointAdvance(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Status      enums.CheckpointStatus `json:"status,omitempty"`
			Description string                 `json:"description,omitempty"`
			Location    *string                `json:"location,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		checkpoint, err := svc.AdvanceCheckpoint(ctx, tracking.AdvanceParams{
			TrackedOrderID: id,
			Status:         payload.Status,
			Description:    payload.Description,
			Location:       payload.Location,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkpoint)
	}
}

func CheckpointRevert(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload struct {
			Reason string `json:"reason" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		checkpoint, err := svc.RevertCheckpoint(ctx, id, payload.Reason)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkpoint)
	}
}

func CheckpointList(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		checkpoints, err := svc.ListCheckpoints(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkpoints)
	}
}

func CheckpointLatest(repo tracking.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "trackedOrderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		checkpoint, err := repo.LatestCheckpoint(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, storeErr(err, "no checkpoints recorded"))
			return
		}
		responses.WriteSuccess(w, checkpoint)
	}
}
