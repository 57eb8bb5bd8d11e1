package orders

import (
	"context"
	"errors"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ErrInsufficientStock signals that a purchase asked for more units than the
// listing has left.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository exposes persistence for orders, summaries and histories.
type Repository interface {
	// PlaceOrder writes the order and decrements product stock in one
	// transaction. A zero OrderHistoryID opens a new history; a non-nil
	// summary is stored and linked.
	PlaceOrder(ctx context.Context, order *models.Order, summary *models.OrderSummary) error
	FindOrder(ctx context.Context, id int64) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error)
	ListBetween(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error)
	SearchByProductName(ctx context.Context, buyerID int64, name string) ([]models.Order, error)
	FindSummary(ctx context.Context, id int64) (*models.OrderSummary, error)
	ListHistories(ctx context.Context, buyerID int64) ([]models.OrderHistory, error)
	ProductsFromHistory(ctx context.Context, historyID int64) ([]models.Product, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) PlaceOrder(ctx context.Context, order *models.Order, summary *models.OrderSummary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
			order.Quantity, order.ProductID, order.Quantity,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Product{}).Where("id = ?", order.ProductID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrInsufficientStock
		}

		if order.OrderHistoryID == 0 {
			history := models.OrderHistory{BuyerID: order.BuyerID}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
			order.OrderHistoryID = history.ID
		}

		if summary != nil {
			if err := tx.Create(summary).Error; err != nil {
				return err
			}
			order.OrderSummaryID = &summary.ID
		}

		return tx.Create(order).Error
	})
}

func (r *repositoryImpl) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error) {
	var orderRows []models.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("order_date DESC, id DESC").
		Find(&orderRows).Error
	if err != nil {
		return nil, err
	}
	return orderRows, nil
}

func (r *repositoryImpl) ListBetween(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error) {
	var orderRows []models.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND order_date >= ? AND order_date < ?", buyerID, from, to).
		Order("order_date DESC, id DESC").
		Find(&orderRows).Error
	if err != nil {
		return nil, err
	}
	return orderRows, nil
}

func (r *repositoryImpl) SearchByProductName(ctx context.Context, buyerID int64, name string) ([]models.Order, error) {
	var orderRows []models.Order
	err := r.db.WithContext(ctx).
		Table("orders o").
		Select("o.*").
		Joins("JOIN products p ON p.id = o.product_id").
		Where("o.buyer_id = ? AND p.name ILIKE ?", buyerID, "%"+name+"%").
		Order("o.order_date DESC, o.id DESC").
		Scan(&orderRows).Error
	if err != nil {
		return nil, err
	}
	return orderRows, nil
}

func (r *repositoryImpl) FindSummary(ctx context.Context, id int64) (*models.OrderSummary, error) {
	var summary models.OrderSummary
	if err := r.db.WithContext(ctx).First(&summary, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repositoryImpl) ListHistories(ctx context.Context, buyerID int64) ([]models.OrderHistory, error) {
	var histories []models.OrderHistory
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *repositoryImpl) ProductsFromHistory(ctx context.Context, historyID int64) ([]models.Product, error) {
	var productRows []models.Product
	err := r.db.WithContext(ctx).
		Table("products p").
		Select("DISTINCT p.*").
		Joins("JOIN orders o ON o.product_id = p.id").
		Where("o.order_history_id = ?", historyID).
		Order("p.id ASC").
		Scan(&productRows).Error
	if err != nil {
		return nil, err
	}
	return productRows, nil
}
