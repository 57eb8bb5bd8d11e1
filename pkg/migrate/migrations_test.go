package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrianfloca/marketforge-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestCatalogMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_catalog_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no catalog migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CHECK (price_cents >= 0)",
		"CHECK (stock >= 0)",
		"CHECK (quantity >= 1)",
		"CHECK (product_type IN ('new', 'used', 'borrowed'))",
		"CREATE UNIQUE INDEX idx_waitlist_product_buyer",
		"DROP TABLE orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestContractsMigrationEnforcesStatuses(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_contracts_tracking.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no contracts migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CHECK (status IN ('ACTIVE', 'RENEWED', 'EXPIRED'))",
		"renewed_from_contract_id BIGINT REFERENCES contracts (id)",
		"CREATE UNIQUE INDEX idx_tracked_orders_order_id",
		"'OUT_FOR_DELIVERY', 'DELIVERED'",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
