package models

import (
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

// Address is the postal shape embedded on buyer rows for both shipping and
// billing destinations.
type Address struct {
	StreetLine string `gorm:"column:street_line" json:"streetLine"`
	City       string `gorm:"column:city" json:"city"`
	Country    string `gorm:"column:country" json:"country"`
	PostalCode string `gorm:"column:postal_code" json:"postalCode"`
}

// Buyer is the one-to-one buyer extension of a User; the PK doubles as the FK.
type Buyer struct {
	UserID            int64     `gorm:"column:user_id;primaryKey" json:"userId"`
	User              *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	FirstName         string    `gorm:"column:first_name;not null" json:"firstName"`
	LastName          string    `gorm:"column:last_name;not null" json:"lastName"`
	ShippingAddress   Address   `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	BillingAddress    Address   `gorm:"embedded;embeddedPrefix:billing_" json:"billingAddress"`
	UseSameAddress    bool      `gorm:"column:use_same_address;not null;default:false" json:"useSameAddress"`
	TotalSpentCents   int64     `gorm:"column:total_spent_cents;not null;default:0" json:"totalSpentCents"`
	NumberOfPurchases int       `gorm:"column:number_of_purchases;not null;default:0" json:"numberOfPurchases"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// BuyerLinkage is an approval-gated relationship between two buyer accounts.
// The requesting/receiving pair is unique regardless of direction; direction
// is preserved so the receiver is the one who approves.
type BuyerLinkage struct {
	ID                int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RequestingBuyerID int64               `gorm:"column:requesting_buyer_id;not null;index" json:"requestingBuyerId"`
	ReceivingBuyerID  int64               `gorm:"column:receiving_buyer_id;not null;index" json:"receivingBuyerId"`
	Status            enums.LinkageStatus `gorm:"column:status;not null;default:pending" json:"status"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Following records a buyer following a seller's store.
type Following struct {
	BuyerID   int64     `gorm:"column:buyer_id;primaryKey" json:"buyerId"`
	SellerID  int64     `gorm:"column:seller_id;primaryKey" json:"sellerId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
