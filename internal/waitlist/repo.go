package waitlist

import (
	"context"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence for product waitlists. Positions are dense
// ranks over (joined_at, id); they are computed per query, never stored.
type Repository interface {
	// Join inserts the entry unless the buyer already waits on the
	// product; the bool reports whether a new row was written.
	Join(ctx context.Context, productID, buyerID int64, at time.Time) (bool, error)
	Leave(ctx context.Context, productID, buyerID int64) (bool, error)
	Position(ctx context.Context, productID, buyerID int64) (int, error)
	ListBuyers(ctx context.Context, productID int64) ([]models.WaitlistEntry, error)
	ListProducts(ctx context.Context, buyerID int64) ([]models.WaitlistEntry, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a waitlist repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Join(ctx context.Context, productID, buyerID int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO waitlist_entries (product_id, buyer_id, joined_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (product_id, buyer_id) DO NOTHING`,
		productID, buyerID, at,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Leave(ctx context.Context, productID, buyerID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_id = ?", productID, buyerID).
		Delete(&models.WaitlistEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Position counts how many entries precede the buyer's; the first joiner has
// position 1.
func (r *repositoryImpl) Position(ctx context.Context, productID, buyerID int64) (int, error) {
	var entry models.WaitlistEntry
	err := r.db.WithContext(ctx).
		First(&entry, "product_id = ? AND buyer_id = ?", productID, buyerID).Error
	if err != nil {
		return 0, err
	}

	var ahead int64
	err = r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("product_id = ? AND (joined_at < ? OR (joined_at = ? AND id < ?))",
			productID, entry.JoinedAt, entry.JoinedAt, entry.ID).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

func (r *repositoryImpl) ListBuyers(ctx context.Context, productID int64) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("joined_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repositoryImpl) ListProducts(ctx context.Context, buyerID int64) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("joined_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
