package enums

import "fmt"

// LinkageStatus tracks an approval-gated relationship between two buyers.
type LinkageStatus string

const (
	LinkageStatusPending  LinkageStatus = "pending"
	LinkageStatusAccepted LinkageStatus = "accepted"
	LinkageStatusRejected LinkageStatus = "rejected"
)

var validLinkageStatuses = []LinkageStatus{
	LinkageStatusPending,
	LinkageStatusAccepted,
	LinkageStatusRejected,
}

var linkageTransitions = map[LinkageStatus][]LinkageStatus{
	LinkageStatusPending:  {LinkageStatusAccepted, LinkageStatusRejected},
	LinkageStatusAccepted: {},
	LinkageStatusRejected: {},
}

// IsValid reports whether the value is a known LinkageStatus.
func (l LinkageStatus) IsValid() bool {
	for _, candidate := range validLinkageStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the move to next is legal.
func (l LinkageStatus) CanTransitionTo(next LinkageStatus) bool {
	for _, candidate := range linkageTransitions[l] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseLinkageStatus converts raw input into a LinkageStatus.
func ParseLinkageStatus(value string) (LinkageStatus, error) {
	for _, candidate := range validLinkageStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid linkage status %q", value)
}
