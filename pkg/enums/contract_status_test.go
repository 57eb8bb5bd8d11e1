package enums

import "testing"

func TestContractStatusTransitions(t *testing.T) {
	if !ContractStatusActive.CanTransitionTo(ContractStatusRenewed) {
		t.Fatal("ACTIVE -> RENEWED must be allowed")
	}
	if !ContractStatusActive.CanTransitionTo(ContractStatusExpired) {
		t.Fatal("ACTIVE -> EXPIRED must be allowed")
	}
	if ContractStatusExpired.CanTransitionTo(ContractStatusActive) {
		t.Fatal("EXPIRED contracts must not re-activate")
	}
	if ContractStatusRenewed.CanTransitionTo(ContractStatusExpired) {
		t.Fatal("RENEWED is terminal")
	}
}

func TestContractStatusTerminal(t *testing.T) {
	if ContractStatusActive.IsTerminal() {
		t.Fatal("ACTIVE is not terminal")
	}
	if !ContractStatusRenewed.IsTerminal() || !ContractStatusExpired.IsTerminal() {
		t.Fatal("RENEWED and EXPIRED are terminal")
	}
	if ContractStatus("bogus").IsTerminal() {
		t.Fatal("unknown status is not terminal")
	}
}

func TestParseContractStatus(t *testing.T) {
	if _, err := ParseContractStatus("ACTIVE"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseContractStatus("active"); err == nil {
		t.Fatal("status values are case sensitive")
	}
}
