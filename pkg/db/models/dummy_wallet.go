package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DummyWallet is the toy balance attached to a buyer. No real money moves.
type DummyWallet struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BuyerID   int64           `gorm:"column:buyer_id;not null;uniqueIndex" json:"buyerId"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// DummyCard is the toy card attached to a buyer; only the last four digits
// are retained.
type DummyCard struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BuyerID   int64           `gorm:"column:buyer_id;not null;index" json:"buyerId"`
	LastFour  string          `gorm:"column:last_four;not null" json:"lastFour"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
