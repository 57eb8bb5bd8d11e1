package enums

import "fmt"

// CheckpointStatus is the shipment progression recorded on order checkpoints.
//
// The progression is strictly linear; appending a checkpoint must advance by
// exactly one step. Reverting is a separate, explicit operation that steps
// back one.
type CheckpointStatus string

const (
	CheckpointStatusProcessing     CheckpointStatus = "PROCESSING"
	CheckpointStatusShipped        CheckpointStatus = "SHIPPED"
	CheckpointStatusInWarehouse    CheckpointStatus = "IN_WAREHOUSE"
	CheckpointStatusInTransit      CheckpointStatus = "IN_TRANSIT"
	CheckpointStatusOutForDelivery CheckpointStatus = "OUT_FOR_DELIVERY"
	CheckpointStatusDelivered      CheckpointStatus = "DELIVERED"
)

var checkpointProgression = []CheckpointStatus{
	CheckpointStatusProcessing,
	CheckpointStatusShipped,
	CheckpointStatusInWarehouse,
	CheckpointStatusInTransit,
	CheckpointStatusOutForDelivery,
	CheckpointStatusDelivered,
}

// String implements fmt.Stringer.
func (c CheckpointStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckpointStatus.
func (c CheckpointStatus) IsValid() bool {
	return c.index() >= 0
}

func (c CheckpointStatus) index() int {
	for i, candidate := range checkpointProgression {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Next returns the following status in the progression. The second return is
// false when the status is DELIVERED or unknown.
func (c CheckpointStatus) Next() (CheckpointStatus, bool) {
	i := c.index()
	if i < 0 || i == len(checkpointProgression)-1 {
		return "", false
	}
	return checkpointProgression[i+1], true
}

// Previous returns the preceding status in the progression. The second return
// is false when the status is PROCESSING or unknown.
func (c CheckpointStatus) Previous() (CheckpointStatus, bool) {
	i := c.index()
	if i <= 0 {
		return "", false
	}
	return checkpointProgression[i-1], true
}

// CanAdvanceTo reports whether next is exactly one step ahead of c.
func (c CheckpointStatus) CanAdvanceTo(next CheckpointStatus) bool {
	ci, ni := c.index(), next.index()
	return ci >= 0 && ni == ci+1
}

// ParseCheckpointStatus converts raw input into a CheckpointStatus.
func ParseCheckpointStatus(value string) (CheckpointStatus, error) {
	for _, candidate := range checkpointProgression {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkpoint status %q", value)
}
