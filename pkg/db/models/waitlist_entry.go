package models

import "time"

// WaitlistEntry is one buyer queued on one product. Positions are never
// stored; they are computed from (joined_at, id) order so removals renumber
// the queue automatically.
type WaitlistEntry struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_waitlist_product_buyer" json:"productId"`
	BuyerID   int64     `gorm:"column:buyer_id;not null;uniqueIndex:idx_waitlist_product_buyer" json:"buyerId"`
	JoinedAt  time.Time `gorm:"column:joined_at;not null" json:"joinedAt"`
}
