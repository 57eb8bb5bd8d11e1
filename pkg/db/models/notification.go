package models

import (
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

// Notification is a category-tagged row with nullable reference columns; the
// category dictates which references must be present (see
// enums.NotificationCategory.Refs).
type Notification struct {
	ID             int64                      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RecipientID    int64                      `gorm:"column:recipient_id;not null;index" json:"recipientId"`
	Category       enums.NotificationCategory `gorm:"column:category;not null" json:"category"`
	IsRead         bool                       `gorm:"column:is_read;not null;default:false" json:"isRead"`
	ContractID     *int64                     `gorm:"column:contract_id" json:"contractId,omitempty"`
	ProductID      *int64                     `gorm:"column:product_id" json:"productId,omitempty"`
	OrderID        *int64                     `gorm:"column:order_id" json:"orderId,omitempty"`
	ExpirationDate *time.Time                 `gorm:"column:expiration_date" json:"expirationDate,omitempty"`
	IsAccepted     *bool                      `gorm:"column:is_accepted" json:"isAccepted,omitempty"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
