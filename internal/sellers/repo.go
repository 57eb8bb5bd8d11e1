package sellers

import (
	"context"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes persistence for seller store profiles.
type Repository interface {
	Create(ctx context.Context, seller *models.Seller) error
	FindByUserID(ctx context.Context, userID int64) (*models.Seller, error)
	Update(ctx context.Context, seller *models.Seller) error
	UpdateTrustScore(ctx context.Context, userID int64, score decimal.Decimal) error
	AdjustFollowers(ctx context.Context, userID int64, delta int) error
	Delete(ctx context.Context, userID int64) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a seller repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, seller *models.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

func (r *repositoryImpl) FindByUserID(ctx context.Context, userID int64) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).First(&seller, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *repositoryImpl) Update(ctx context.Context, seller *models.Seller) error {
	return r.db.WithContext(ctx).Save(seller).Error
}

func (r *repositoryImpl) UpdateTrustScore(ctx context.Context, userID int64, score decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Seller{}).
		Where("user_id = ?", userID).
		UpdateColumn("trust_score", score)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) AdjustFollowers(ctx context.Context, userID int64, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Seller{}).
		Where("user_id = ?", userID).
		UpdateColumn("followers_count", gorm.Expr("GREATEST(followers_count + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Delete(&models.Seller{}, "user_id = ?", userID).Error
}
