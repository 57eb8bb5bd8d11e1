package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

// Product represents a seller listing. Borrowed listings carry an optional
// availability window; StartDate <= EndDate is enforced in the product
// service, not here.
type Product struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SellerID    int64             `gorm:"column:seller_id;not null;index" json:"sellerId"`
	Name        string            `gorm:"column:name;not null" json:"name"`
	Description string            `gorm:"column:description;not null;default:''" json:"description"`
	PriceCents  int64             `gorm:"column:price_cents;not null" json:"priceCents"`
	Stock       int               `gorm:"column:stock;not null;default:0" json:"stock"`
	ProductType enums.ProductType `gorm:"column:product_type;not null" json:"productType"`
	Tags        pq.StringArray    `gorm:"column:tags;type:text[]" json:"tags"`
	StartDate   *time.Time        `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate     *time.Time        `gorm:"column:end_date" json:"endDate,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
