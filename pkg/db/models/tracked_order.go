package models

import (
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

// TrackedOrder is the shipment record for an order; exactly one per order.
// CurrentStatus mirrors the newest checkpoint and exists only to avoid a join
// on every status read.
type TrackedOrder struct {
	ID                    int64                  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID               int64                  `gorm:"column:order_id;not null;uniqueIndex" json:"orderId"`
	CurrentStatus         enums.CheckpointStatus `gorm:"column:current_status;not null;default:PROCESSING" json:"currentStatus"`
	EstimatedDeliveryDate time.Time              `gorm:"column:estimated_delivery_date;not null" json:"estimatedDeliveryDate"`
	DeliveryAddress       string                 `gorm:"column:delivery_address;not null" json:"deliveryAddress"`
	CreatedAt             time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// OrderCheckpoint is one append-only entry in a shipment's status history.
type OrderCheckpoint struct {
	ID             int64                  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TrackedOrderID int64                  `gorm:"column:tracked_order_id;not null;index" json:"trackedOrderId"`
	Status         enums.CheckpointStatus `gorm:"column:status;not null" json:"status"`
	Description    string                 `gorm:"column:description;not null;default:''" json:"description"`
	Location       *string                `gorm:"column:location" json:"location,omitempty"`
	Timestamp      time.Time              `gorm:"column:timestamp;not null" json:"timestamp"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
