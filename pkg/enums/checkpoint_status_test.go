package enums

import "testing"

func TestCheckpointProgressionIsLinear(t *testing.T) {
	current := CheckpointStatusProcessing
	var steps int
	for {
		next, ok := current.Next()
		if !ok {
			break
		}
		if !current.CanAdvanceTo(next) {
			t.Fatalf("%s should advance to %s", current, next)
		}
		current = next
		steps++
	}
	if current != CheckpointStatusDelivered {
		t.Fatalf("progression should end at DELIVERED, got %s", current)
	}
	if steps != 5 {
		t.Fatalf("expected 5 forward steps, got %d", steps)
	}
}

func TestCheckpointNoSkipping(t *testing.T) {
	if CheckpointStatusProcessing.CanAdvanceTo(CheckpointStatusInTransit) {
		t.Fatal("skipping statuses must be rejected")
	}
	if CheckpointStatusDelivered.CanAdvanceTo(CheckpointStatusProcessing) {
		t.Fatal("DELIVERED must not advance")
	}
	if CheckpointStatusShipped.CanAdvanceTo(CheckpointStatusProcessing) {
		t.Fatal("backwards moves are not advances")
	}
}

func TestCheckpointPrevious(t *testing.T) {
	prev, ok := CheckpointStatusShipped.Previous()
	if !ok || prev != CheckpointStatusProcessing {
		t.Fatalf("expected PROCESSING, got %s (%v)", prev, ok)
	}
	if _, ok := CheckpointStatusProcessing.Previous(); ok {
		t.Fatal("PROCESSING has no predecessor")
	}
}
