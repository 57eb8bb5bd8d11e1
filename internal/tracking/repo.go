package tracking

import (
	"context"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for tracked orders and their checkpoints.
type Repository interface {
	Create(ctx context.Context, tracked *models.TrackedOrder) error
	FindByID(ctx context.Context, id int64) (*models.TrackedOrder, error)
	FindByOrderID(ctx context.Context, orderID int64) (*models.TrackedOrder, error)
	UpdateEstimatedDelivery(ctx context.Context, id int64, tracked *models.TrackedOrder) error
	// AppendCheckpoint writes the checkpoint and mirrors its status onto the
	// tracked order in one transaction.
	AppendCheckpoint(ctx context.Context, checkpoint *models.OrderCheckpoint) error
	ListCheckpoints(ctx context.Context, trackedOrderID int64) ([]models.OrderCheckpoint, error)
	LatestCheckpoint(ctx context.Context, trackedOrderID int64) (*models.OrderCheckpoint, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a tracking repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, tracked *models.TrackedOrder) error {
	return r.db.WithContext(ctx).Create(tracked).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id int64) (*models.TrackedOrder, error) {
	var tracked models.TrackedOrder
	if err := r.db.WithContext(ctx).First(&tracked, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tracked, nil
}

func (r *repositoryImpl) FindByOrderID(ctx context.Context, orderID int64) (*models.TrackedOrder, error) {
	var tracked models.TrackedOrder
	if err := r.db.WithContext(ctx).First(&tracked, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &tracked, nil
}

func (r *repositoryImpl) UpdateEstimatedDelivery(ctx context.Context, id int64, tracked *models.TrackedOrder) error {
	result := r.db.WithContext(ctx).
		Model(&models.TrackedOrder{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"estimated_delivery_date": tracked.EstimatedDeliveryDate,
			"delivery_address":        tracked.DeliveryAddress,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) AppendCheckpoint(ctx context.Context, checkpoint *models.OrderCheckpoint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(checkpoint).Error; err != nil {
			return err
		}
		result := tx.Model(&models.TrackedOrder{}).
			Where("id = ?", checkpoint.TrackedOrderID).
			UpdateColumn("current_status", checkpoint.Status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *repositoryImpl) ListCheckpoints(ctx context.Context, trackedOrderID int64) ([]models.OrderCheckpoint, error) {
	var checkpoints []models.OrderCheckpoint
	err := r.db.WithContext(ctx).
		Where("tracked_order_id = ?", trackedOrderID).
		Order("timestamp ASC, id ASC").
		Find(&checkpoints).Error
	if err != nil {
		return nil, err
	}
	return checkpoints, nil
}

func (r *repositoryImpl) LatestCheckpoint(ctx context.Context, trackedOrderID int64) (*models.OrderCheckpoint, error) {
	var checkpoint models.OrderCheckpoint
	err := r.db.WithContext(ctx).
		Where("tracked_order_id = ?", trackedOrderID).
		Order("timestamp DESC, id DESC").
		First(&checkpoint).Error
	if err != nil {
		return nil, err
	}
	return &checkpoint, nil
}
