package enums

import "fmt"

// ProductType distinguishes how a listing is offered.
type ProductType string

const (
	ProductTypeNew      ProductType = "new"
	ProductTypeUsed     ProductType = "used"
	ProductTypeBorrowed ProductType = "borrowed"
)

var validProductTypes = []ProductType{
	ProductTypeNew,
	ProductTypeUsed,
	ProductTypeBorrowed,
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
