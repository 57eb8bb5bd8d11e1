package enums

import "fmt"

// ContractStatus tracks the lifecycle of a contract version.
//
// The graph is deliberately small and final: an ACTIVE contract either gets
// renewed (a successor row is appended to the chain) or expires. RENEWED and
// EXPIRED are terminal; callers cannot re-activate a dead contract.
type ContractStatus string

const (
	ContractStatusActive  ContractStatus = "ACTIVE"
	ContractStatusRenewed ContractStatus = "RENEWED"
	ContractStatusExpired ContractStatus = "EXPIRED"
)

var validContractStatuses = []ContractStatus{
	ContractStatusActive,
	ContractStatusRenewed,
	ContractStatusExpired,
}

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusActive:  {ContractStatusRenewed, ContractStatusExpired},
	ContractStatusRenewed: {},
	ContractStatusExpired: {},
}

// String implements fmt.Stringer.
func (c ContractStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContractStatus.
func (c ContractStatus) IsValid() bool {
	for _, candidate := range validContractStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (c ContractStatus) IsTerminal() bool {
	return len(contractTransitions[c]) == 0 && c.IsValid()
}

// CanTransitionTo reports whether the move to next is legal.
func (c ContractStatus) CanTransitionTo(next ContractStatus) bool {
	for _, candidate := range contractTransitions[c] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseContractStatus converts raw input into a ContractStatus.
func ParseContractStatus(value string) (ContractStatus, error) {
	for _, candidate := range validContractStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contract status %q", value)
}
