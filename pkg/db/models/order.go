package models

import (
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

// Order is a single purchase of a product by a buyer.
type Order struct {
	ID             int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BuyerID        int64               `gorm:"column:buyer_id;not null;index" json:"buyerId"`
	ProductID      int64               `gorm:"column:product_id;not null;index" json:"productId"`
	SellerID       int64               `gorm:"column:seller_id;not null;index" json:"sellerId"`
	OrderSummaryID *int64              `gorm:"column:order_summary_id" json:"orderSummaryId,omitempty"`
	OrderHistoryID int64               `gorm:"column:order_history_id;not null;index" json:"orderHistoryId"`
	Quantity       int                 `gorm:"column:quantity;not null;default:1" json:"quantity"`
	CostCents      int64               `gorm:"column:cost_cents;not null" json:"costCents"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null" json:"paymentMethod"`
	OrderDate      time.Time           `gorm:"column:order_date;not null" json:"orderDate"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// OrderSummary captures the totals and contact details snapshotted at
// checkout time.
type OrderSummary struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubtotalCents    int64     `gorm:"column:subtotal_cents;not null" json:"subtotalCents"`
	WarrantyTaxCents int64     `gorm:"column:warranty_tax_cents;not null;default:0" json:"warrantyTaxCents"`
	DeliveryFeeCents int64     `gorm:"column:delivery_fee_cents;not null;default:0" json:"deliveryFeeCents"`
	FinalTotalCents  int64     `gorm:"column:final_total_cents;not null" json:"finalTotalCents"`
	FullName         string    `gorm:"column:full_name;not null;default:''" json:"fullName"`
	Email            string    `gorm:"column:email;not null;default:''" json:"email"`
	PhoneNumber      string    `gorm:"column:phone_number;not null;default:''" json:"phoneNumber"`
	Address          string    `gorm:"column:address;not null;default:''" json:"address"`
	PostalCode       string    `gorm:"column:postal_code;not null;default:''" json:"postalCode"`
	AdditionalInfo   string    `gorm:"column:additional_info;not null;default:''" json:"additionalInfo"`
	ContractDetails  *string   `gorm:"column:contract_details" json:"contractDetails,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// OrderHistory groups the orders placed by a buyer in one checkout.
type OrderHistory struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BuyerID   int64     `gorm:"column:buyer_id;not null;index" json:"buyerId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
