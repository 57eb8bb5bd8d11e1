package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn           func(ctx context.Context, tracked *models.TrackedOrder) error
	findByIDFn         func(ctx context.Context, id int64) (*models.TrackedOrder, error)
	findByOrderIDFn    func(ctx context.Context, orderID int64) (*models.TrackedOrder, error)
	appendCheckpointFn func(ctx context.Context, checkpoint *models.OrderCheckpoint) error
	listCheckpointsFn  func(ctx context.Context, trackedOrderID int64) ([]models.OrderCheckpoint, error)
}

func (f *fakeRepository) Create(ctx context.Context, tracked *models.TrackedOrder) error {
	if f.createFn != nil {
		return f.createFn(ctx, tracked)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.TrackedOrder, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByOrderID(ctx context.Context, orderID int64) (*models.TrackedOrder, error) {
	if f.findByOrderIDFn != nil {
		return f.findByOrderIDFn(ctx, orderID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpdateEstimatedDelivery(ctx context.Context, id int64, tracked *models.TrackedOrder) error {
	return nil
}

func (f *fakeRepository) AppendCheckpoint(ctx context.Context, checkpoint *models.OrderCheckpoint) error {
	if f.appendCheckpointFn != nil {
		return f.appendCheckpointFn(ctx, checkpoint)
	}
	return nil
}

func (f *fakeRepository) ListCheckpoints(ctx context.Context, trackedOrderID int64) ([]models.OrderCheckpoint, error) {
	if f.listCheckpointsFn != nil {
		return f.listCheckpointsFn(ctx, trackedOrderID)
	}
	return nil, nil
}

func (f *fakeRepository) LatestCheckpoint(ctx context.Context, trackedOrderID int64) (*models.OrderCheckpoint, error) {
	return nil, gorm.ErrRecordNotFound
}

var trackingNow = time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Clock: func() time.Time { return trackingNow }})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestStartTrackingWritesInitialCheckpoint(t *testing.T) {
	var initial *models.OrderCheckpoint
	repo := &fakeRepository{
		createFn: func(ctx context.Context, tracked *models.TrackedOrder) error {
			tracked.ID = 5
			return nil
		},
		appendCheckpointFn: func(ctx context.Context, checkpoint *models.OrderCheckpoint) error {
			initial = checkpoint
			return nil
		},
	}
	svc := newTestService(t, repo)

	tracked, err := svc.StartTracking(context.Background(), StartTrackingParams{
		OrderID:               9,
		EstimatedDeliveryDate: trackingNow.AddDate(0, 0, 5),
		DeliveryAddress:       "1 Forge St",
	})
	if err != nil {
		t.Fatalf("StartTracking: %v", err)
	}
	if tracked.CurrentStatus != enums.CheckpointStatusProcessing {
		t.Fatalf("expected processing status, got %q", tracked.CurrentStatus)
	}
	if initial == nil || initial.Status != enums.CheckpointStatusProcessing || initial.TrackedOrderID != 5 {
		t.Fatalf("unexpected initial checkpoint %+v", initial)
	}
}

func TestStartTrackingRejectsSecondRecord(t *testing.T) {
	repo := &fakeRepository{
		findByOrderIDFn: func(ctx context.Context, orderID int64) (*models.TrackedOrder, error) {
			return &models.TrackedOrder{ID: 5, OrderID: orderID}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.StartTracking(context.Background(), StartTrackingParams{
		OrderID:               9,
		EstimatedDeliveryDate: trackingNow,
		DeliveryAddress:       "1 Forge St",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAdvanceCheckpointOneStep(t *testing.T) {
	var appended *models.OrderCheckpoint
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.TrackedOrder, error) {
			return &models.TrackedOrder{ID: id, OrderID: 9, CurrentStatus: enums.CheckpointStatusShipped}, nil
		},
		appendCheckpointFn: func(ctx context.Context, checkpoint *models.OrderCheckpoint) error {
			appended = checkpoint
			return nil
		},
	}
	svc := newTestService(t, repo)

	checkpoint, err := svc.AdvanceCheckpoint(context.Background(), AdvanceParams{
		TrackedOrderID: 5,
		Status:         enums.CheckpointStatusInWarehouse,
	})
	if err != nil {
		t.Fatalf("AdvanceCheckpoint: %v", err)
	}
	if checkpoint.Status != enums.CheckpointStatusInWarehouse {
		t.Fatalf("expected in_warehouse, got %q", checkpoint.Status)
	}
	if !appended.Timestamp.Equal(trackingNow) {
		t.Fatalf("expected clock timestamp, got %v", appended.Timestamp)
	}
}

func TestAdvanceCheckpointRejectsSkip(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.TrackedOrder, error) {
			return &models.TrackedOrder{ID: id, CurrentStatus: enums.CheckpointStatusProcessing}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.AdvanceCheckpoint(context.Background(), AdvanceParams{
		TrackedOrderID: 5,
		Status:         enums.CheckpointStatusInTransit,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestAdvanceCheckpointAutoStep(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.TrackedOrder, error) {
			return &models.TrackedOrder{ID: id, CurrentStatus: enums.CheckpointStatusOutForDelivery}, nil
		},
	}
	svc := newTestService(t, repo)

	checkpoint, err := svc.AdvanceCheckpoint(context.Background(), AdvanceParams{TrackedOrderID: 5})
	if err != nil {
		t.Fatalf("AdvanceCheckpoint: %v", err)
	}
	if checkpoint.Status != enums.CheckpointStatusDelivered {
		t.Fatalf("expected delivered, got %q", checkpoint.Status)
	}
}

func TestAdvanceCheckpointDeliveredIsFinal(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.TrackedOrder, error) {
			return &models.TrackedOrder{ID: id, CurrentStatus: enums.CheckpointStatusDelivered}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.AdvanceCheckpoint(context.Background(), AdvanceParams{TrackedOrderID: 5})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRevertCheckpointStepsBackOne(t *testing.T) {
	var appended *models.OrderCheckpoint
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.TrackedOrder, error) {
			return &models.TrackedOrder{ID: id, CurrentStatus: enums.CheckpointStatusInTransit}, nil
		},
		appendCheckpointFn: func(ctx context.Context, checkpoint *models.OrderCheckpoint) error {
			appended = checkpoint
			return nil
		},
	}
	svc := newTestService(t, repo)

	checkpoint, err := svc.RevertCheckpoint(context.Background(), 5, "mis-scanned crate")
	if err != nil {
		t.Fatalf("RevertCheckpoint: %v", err)
	}
	if checkpoint.Status != enums.CheckpointStatusInWarehouse {
		t.Fatalf("expected in_warehouse, got %q", checkpoint.Status)
	}
	if appended.Description != "mis-scanned crate" {
		t.Fatalf("expected reason recorded, got %q", appended.Description)
	}
}

func TestRevertCheckpointAtProcessing(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.TrackedOrder, error) {
			return &models.TrackedOrder{ID: id, CurrentStatus: enums.CheckpointStatusProcessing}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.RevertCheckpoint(context.Background(), 5, "oops")
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
