package cart

import (
	"context"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Line is one cart row joined with its product listing.
type Line struct {
	BuyerID     int64  `gorm:"column:buyer_id" json:"buyerId"`
	ProductID   int64  `gorm:"column:product_id" json:"productId"`
	Quantity    int    `gorm:"column:quantity" json:"quantity"`
	ProductName string `gorm:"column:product_name" json:"productName"`
	PriceCents  int64  `gorm:"column:price_cents" json:"priceCents"`
	TotalCents  int64  `gorm:"-" json:"totalCents"`
}

// Repository exposes persistence for shopping cart rows.
type Repository interface {
	// AddItem upserts on the (buyer, product) key, incrementing quantity
	// when the row already exists.
	AddItem(ctx context.Context, buyerID, productID int64, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, buyerID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, buyerID, productID int64) (bool, error)
	Clear(ctx context.Context, buyerID int64) (int64, error)
	List(ctx context.Context, buyerID int64) ([]Line, error)
	Total(ctx context.Context, buyerID int64) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) AddItem(ctx context.Context, buyerID, productID int64, quantity int) (*models.CartItem, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO cart_items (buyer_id, product_id, quantity)
		 VALUES (?, ?, ?)
		 ON CONFLICT (buyer_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`,
		buyerID, productID, quantity,
	)
	if result.Error != nil {
		return nil, result.Error
	}

	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "buyer_id = ? AND product_id = ?", buyerID, productID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) SetQuantity(ctx context.Context, buyerID, productID int64, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		UpdateColumn("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) RemoveItem(ctx context.Context, buyerID, productID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Clear(ctx context.Context, buyerID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) List(ctx context.Context, buyerID int64) ([]Line, error) {
	var lines []Line
	err := r.db.WithContext(ctx).
		Table("cart_items c").
		Select("c.buyer_id, c.product_id, c.quantity, p.name AS product_name, p.price_cents").
		Joins("JOIN products p ON p.id = c.product_id").
		Where("c.buyer_id = ?", buyerID).
		Order("c.created_at ASC, c.product_id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repositoryImpl) Total(ctx context.Context, buyerID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("cart_items c").
		Joins("JOIN products p ON p.id = c.product_id").
		Where("c.buyer_id = ?", buyerID).
		Select("COALESCE(SUM(c.quantity * p.price_cents), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
