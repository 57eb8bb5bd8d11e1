package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
	"github.com/adrianfloca/marketforge-backend/pkg/security"
)

func proxyTestRepository(t *testing.T, serverURL string) Repository {
	t.Helper()

	logg := logger.New(logger.Options{
		ServiceName: "users-proxy-test",
		Level:       zerolog.Disabled,
		Output:      os.Stderr,
	})
	client, err := proxy.NewClient(config.RemoteConfig{
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
		Token:   "remote-token",
	}, logg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewProxyRepository(client)
}

func TestProxyFindByUsernameCarriesPasswordHash(t *testing.T) {
	const hash = "$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/records/by-username/dana" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"id":4,"username":"dana","email":"dana@example.com","role":"buyer","passwordHash":%q}}`, hash)
	}))
	defer server.Close()

	repo := proxyTestRepository(t, server.URL)
	user, err := repo.FindByUsername(context.Background(), "dana")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user.ID != 4 || user.Username != "dana" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != hash {
		t.Fatalf("password hash lost on the wire: %q", user.PasswordHash)
	}
}

func TestProxyFindByIDCarriesPasswordHash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/records/9" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":9,"username":"lee","email":"lee@example.com","role":"seller","passwordHash":"stored-hash"}}`))
	}))
	defer server.Close()

	repo := proxyTestRepository(t, server.URL)
	user, err := repo.FindByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user.PasswordHash != "stored-hash" {
		t.Fatalf("expected stored hash, got %q", user.PasswordHash)
	}
}

func TestAuthenticateThroughProxyRepository(t *testing.T) {
	cfg := testPasswordConfig()
	hash, err := security.HashPassword("correct horse", cfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/records/by-username/dana", func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"id":           4,
			"username":     "dana",
			"email":        "dana@example.com",
			"role":         "buyer",
			"passwordHash": hash,
		}
		json.NewEncoder(w).Encode(map[string]any{"data": payload})
	})
	var loginRecorded bool
	mux.HandleFunc("POST /api/v1/users/4/login-success", func(w http.ResponseWriter, r *http.Request) {
		loginRecorded = true
		w.Write([]byte(`{"data":null}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc, err := NewService(ServiceParams{
		Repo:     proxyTestRepository(t, server.URL),
		Password: cfg,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "dana", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate over proxy: %v", err)
	}
	if user.ID != 4 {
		t.Fatalf("unexpected user id %d", user.ID)
	}
	if !loginRecorded {
		t.Fatal("expected login success to be recorded remotely")
	}
}
