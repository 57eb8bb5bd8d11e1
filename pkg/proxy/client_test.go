package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/config"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
	"github.com/rs/zerolog"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "proxy-test",
		Level:       zerolog.Disabled,
		Output:      os.Stderr,
	})
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(config.RemoteConfig{
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
		Token:   "remote-token",
	}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestGetDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer remote-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("expected limit query, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":7,"name":"widget"}}`))
	}))
	defer server.Close()

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	query := url.Values{"limit": []string{"10"}}
	if err := testClient(t, server.URL).Get(context.Background(), "/products/7", query, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.ID != 7 || out.Name != "widget" {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestGetNullDataLeavesOutUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	var out []string
	if err := testClient(t, server.URL).Get(context.Background(), "/items", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != nil {
		t.Fatalf("expected untouched slice, got %v", out)
	}
}

func TestErrorEnvelopeMapsCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"product not found"}}`))
	}))
	defer server.Close()

	err := testClient(t, server.URL).Get(context.Background(), "/products/99", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not_found, got %s", appErr.Code())
	}
}

func TestNonEnvelopeErrorFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	err := testClient(t, server.URL).Get(context.Background(), "/anything", nil, nil)
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %s", appErr.Code())
	}
}

func TestNewClientRejectsMissingBaseURL(t *testing.T) {
	if _, err := NewClient(config.RemoteConfig{}, testLogger()); err == nil {
		t.Fatal("expected error for missing base url")
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":1}}`))
	}))
	defer server.Close()

	var out struct {
		ID int64 `json:"id"`
	}
	body := map[string]any{"name": "widget"}
	if err := testClient(t, server.URL).Post(context.Background(), "/products", body, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if out.ID != 1 {
		t.Fatalf("unexpected id %d", out.ID)
	}
}
