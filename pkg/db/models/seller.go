package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Seller is the one-to-one seller extension of a User; the PK doubles as the
// FK, mirroring Buyer.
type Seller struct {
	UserID           int64           `gorm:"column:user_id;primaryKey" json:"userId"`
	User             *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	StoreName        string          `gorm:"column:store_name;not null;default:''" json:"storeName"`
	StoreDescription string          `gorm:"column:store_description;not null;default:''" json:"storeDescription"`
	StoreAddress     string          `gorm:"column:store_address;not null;default:''" json:"storeAddress"`
	TrustScore       decimal.Decimal `gorm:"column:trust_score;type:numeric(5,2);not null;default:0" json:"trustScore"`
	FollowersCount   int             `gorm:"column:followers_count;not null;default:0" json:"followersCount"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
