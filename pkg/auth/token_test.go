package auth

import (
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "marketforge-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID:   42,
		Username: "ana",
		Role:     enums.UserRoleBuyer,
		JTI:      "jti-123",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "ana" {
		t.Fatalf("expected username ana, got %s", claims.Username)
	}
	if claims.Role != enums.UserRoleBuyer {
		t.Fatalf("expected buyer role, got %s", claims.Role)
	}
	if claims.ID != "jti-123" {
		t.Fatalf("expected jti-123, got %s", claims.ID)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID:   1,
		Username: "bob",
		Role:     enums.UserRoleSeller,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	claims, err := ParseAccessToken(testJWTConfig(), token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	mintCfg := testJWTConfig()
	token, err := MintAccessToken(mintCfg, time.Now(), AccessTokenPayload{
		UserID:   1,
		Username: "bob",
		Role:     enums.UserRoleBuyer,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	parseCfg := mintCfg
	parseCfg.Issuer = "someone-else"
	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID:   1,
		Username: "bob",
		Role:     enums.UserRoleBuyer,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID:   1,
		Username: "bob",
		Role:     enums.UserRole("ghost"),
	})
	if err == nil {
		t.Fatal("expected invalid role error")
	}
}
