package enums

import "fmt"

// NotificationCategory maps to the category check constraint on notifications.
// Each category dictates which of the nullable reference columns a row must
// carry; the rows are a poor man's tagged union.
type NotificationCategory string

const (
	NotificationCategoryContractRenewal    NotificationCategory = "contract_renewal"
	NotificationCategoryContractExpiration NotificationCategory = "contract_expiration"
	NotificationCategoryOutbid             NotificationCategory = "outbid"
	NotificationCategoryOrderShipping      NotificationCategory = "order_shipping_progress"
	NotificationCategoryPaymentConfirm     NotificationCategory = "payment_confirmation"
	NotificationCategoryProductRemoved     NotificationCategory = "product_removed"
	NotificationCategoryProductAvailable   NotificationCategory = "product_available"
	NotificationCategoryNewFollower        NotificationCategory = "new_follower"
)

var validNotificationCategories = []NotificationCategory{
	NotificationCategoryContractRenewal,
	NotificationCategoryContractExpiration,
	NotificationCategoryOutbid,
	NotificationCategoryOrderShipping,
	NotificationCategoryPaymentConfirm,
	NotificationCategoryProductRemoved,
	NotificationCategoryProductAvailable,
	NotificationCategoryNewFollower,
}

// NotificationRefs declares which reference columns a category requires.
type NotificationRefs struct {
	Contract bool
	Product  bool
	Order    bool
}

var notificationRefsByCategory = map[NotificationCategory]NotificationRefs{
	NotificationCategoryContractRenewal:    {Contract: true},
	NotificationCategoryContractExpiration: {Contract: true},
	NotificationCategoryOutbid:             {Product: true},
	NotificationCategoryOrderShipping:      {Order: true},
	NotificationCategoryPaymentConfirm:     {Order: true},
	NotificationCategoryProductRemoved:     {Product: true},
	NotificationCategoryProductAvailable:   {Product: true},
	NotificationCategoryNewFollower:        {},
}

// IsValid reports whether the value is a known NotificationCategory.
func (n NotificationCategory) IsValid() bool {
	for _, candidate := range validNotificationCategories {
		if candidate == n {
			return true
		}
	}
	return false
}

// Refs returns the reference columns required for the category.
func (n NotificationCategory) Refs() NotificationRefs {
	return notificationRefsByCategory[n]
}

// ParseNotificationCategory converts raw strings into a NotificationCategory.
func ParseNotificationCategory(value string) (NotificationCategory, error) {
	for _, candidate := range validNotificationCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification category %q", value)
}
