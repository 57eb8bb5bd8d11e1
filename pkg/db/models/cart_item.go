package models

import "time"

// CartItem keys on (buyer, product); quantity is always at least one, since a
// zero quantity means the row should not exist.
type CartItem struct {
	BuyerID   int64     `gorm:"column:buyer_id;primaryKey" json:"buyerId"`
	ProductID int64     `gorm:"column:product_id;primaryKey" json:"productId"`
	Quantity  int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
