package tracking

import (
	"context"
	"strings"
	"time"

	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/internal/orders"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
)

// StartTrackingParams opens a shipment record for an order.
type StartTrackingParams struct {
	OrderID               int64
	EstimatedDeliveryDate time.Time
	DeliveryAddress       string
}

// AdvanceParams appends the next checkpoint. An empty Status advances one
// step automatically.
type AdvanceParams struct {
	TrackedOrderID int64
	Status         enums.CheckpointStatus
	Description    string
	Location       *string
}

// Service defines shipment tracking operations.
type Service interface {
	StartTracking(ctx context.Context, params StartTrackingParams) (*models.TrackedOrder, error)
	GetByOrder(ctx context.Context, orderID int64) (*models.TrackedOrder, error)
	AdvanceCheckpoint(ctx context.Context, params AdvanceParams) (*models.OrderCheckpoint, error)
	RevertCheckpoint(ctx context.Context, trackedOrderID int64, reason string) (*models.OrderCheckpoint, error)
	ListCheckpoints(ctx context.Context, trackedOrderID int64) ([]models.OrderCheckpoint, error)
	UpdateEstimatedDelivery(ctx context.Context, trackedOrderID int64, estimated time.Time, address string) (*models.TrackedOrder, error)
}

// ServiceParams groups dependencies for the tracking service. OrderRepo and
// Notifications are optional as a pair; when both are set, checkpoint
// advances notify the buyer.
type ServiceParams struct {
	Repo          Repository
	OrderRepo     orders.Repository
	Notifications notifications.Service
	Clock         func() time.Time
}

type service struct {
	repo          Repository
	orderRepo     orders.Repository
	notifications notifications.Service
	clock         func() time.Time
}

// NewService builds a tracking service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tracking repository required")
	}
	if (params.OrderRepo == nil) != (params.Notifications == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order repository and notifications must be configured together")
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{
		repo:          params.Repo,
		orderRepo:     params.OrderRepo,
		notifications: params.Notifications,
		clock:         params.Clock,
	}, nil
}

func (s *service) StartTracking(ctx context.Context, params StartTrackingParams) (*models.TrackedOrder, error) {
	if params.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	if strings.TrimSpace(params.DeliveryAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if params.EstimatedDeliveryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated delivery date is required")
	}

	if _, err := s.repo.FindByOrderID(ctx, params.OrderID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already tracked")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check tracking")
	}

	tracked := &models.TrackedOrder{
		OrderID:               params.OrderID,
		CurrentStatus:         enums.CheckpointStatusProcessing,
		EstimatedDeliveryDate: params.EstimatedDeliveryDate,
		DeliveryAddress:       strings.TrimSpace(params.DeliveryAddress),
	}
	if err := s.repo.Create(ctx, tracked); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order is already tracked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tracked order")
	}

	checkpoint := &models.OrderCheckpoint{
		TrackedOrderID: tracked.ID,
		Status:         enums.CheckpointStatusProcessing,
		Description:    "order received",
		Timestamp:      s.clock().UTC(),
	}
	if err := s.repo.AppendCheckpoint(ctx, checkpoint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write initial checkpoint")
	}
	return tracked, nil
}

func (s *service) GetByOrder(ctx context.Context, orderID int64) (*models.TrackedOrder, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	tracked, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order is not tracked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracked order")
	}
	return tracked, nil
}

// AdvanceCheckpoint appends the next status in the linear progression. The
// target must be exactly one step ahead of the current status.
func (s *service) AdvanceCheckpoint(ctx context.Context, params AdvanceParams) (*models.OrderCheckpoint, error) {
	if params.TrackedOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracked order id must be positive")
	}

	tracked, err := s.repo.FindByID(ctx, params.TrackedOrderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "tracked order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracked order")
	}

	target := params.Status
	if target == "" {
		next, ok := tracked.CurrentStatus.Next()
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is already delivered")
		}
		target = next
	}
	if !tracked.CurrentStatus.CanAdvanceTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkpoints advance one step at a time")
	}

	checkpoint := &models.OrderCheckpoint{
		TrackedOrderID: tracked.ID,
		Status:         target,
		Description:    params.Description,
		Location:       params.Location,
		Timestamp:      s.clock().UTC(),
	}
	if err := s.repo.AppendCheckpoint(ctx, checkpoint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append checkpoint")
	}

	if s.notifications != nil {
		order, err := s.orderRepo.FindOrder(ctx, tracked.OrderID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for notification")
		}
		if _, err := s.notifications.Push(ctx, notifications.PushParams{
			RecipientID: order.BuyerID,
			Category:    enums.NotificationCategoryOrderShipping,
			OrderID:     &tracked.OrderID,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify buyer")
		}
	}
	return checkpoint, nil
}

// RevertCheckpoint steps the shipment back one status. The history stays
// append-only; the correction is recorded as a new checkpoint.
func (s *service) RevertCheckpoint(ctx context.Context, trackedOrderID int64, reason string) (*models.OrderCheckpoint, error) {
	if trackedOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracked order id must be positive")
	}

	tracked, err := s.repo.FindByID(ctx, trackedOrderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "tracked order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracked order")
	}

	previous, ok := tracked.CurrentStatus.Previous()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shipment is already at the first status")
	}

	checkpoint := &models.OrderCheckpoint{
		TrackedOrderID: tracked.ID,
		Status:         previous,
		Description:    reason,
		Timestamp:      s.clock().UTC(),
	}
	if err := s.repo.AppendCheckpoint(ctx, checkpoint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append checkpoint")
	}
	return checkpoint, nil
}

func (s *service) ListCheckpoints(ctx context.Context, trackedOrderID int64) ([]models.OrderCheckpoint, error) {
	if trackedOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracked order id must be positive")
	}
	checkpoints, err := s.repo.ListCheckpoints(ctx, trackedOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list checkpoints")
	}
	return checkpoints, nil
}

func (s *service) UpdateEstimatedDelivery(ctx context.Context, trackedOrderID int64, estimated time.Time, address string) (*models.TrackedOrder, error) {
	if trackedOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracked order id must be positive")
	}
	if estimated.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated delivery date is required")
	}

	tracked, err := s.repo.FindByID(ctx, trackedOrderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "tracked order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracked order")
	}

	tracked.EstimatedDeliveryDate = estimated
	if strings.TrimSpace(address) != "" {
		tracked.DeliveryAddress = strings.TrimSpace(address)
	}
	if err := s.repo.UpdateEstimatedDelivery(ctx, trackedOrderID, tracked); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery estimate")
	}
	return tracked, nil
}
