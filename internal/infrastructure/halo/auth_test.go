package halo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/halo"
	"github.com/Wldc4rd/HaloClaude/internal/utils/platformerrors"
)

func newTokenServer(t *testing.T, calls *atomic.Int64, expiresIn int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"Bearer","expires_in":%d}`, n, expiresIn)
	}))
}

func TestAuthManager_SingleFlightUnderConcurrency(t *testing.T) {
	var calls atomic.Int64
	server := newTokenServer(t, &calls, 3600)
	defer server.Close()

	manager := halo.NewAuthManager(server.URL, "id", "secret", 5*time.Second, zerolog.Nop())

	const workers = 16
	var wg sync.WaitGroup
	tokens := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = manager.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("Token() error = %v", errs[i])
		}
		if tokens[i] != "tok-1" {
			t.Errorf("token[%d] = %q, want tok-1", i, tokens[i])
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1", got)
	}
}

func TestAuthManager_CachedTokenReused(t *testing.T) {
	var calls atomic.Int64
	server := newTokenServer(t, &calls, 3600)
	defer server.Close()

	manager := halo.NewAuthManager(server.URL, "id", "secret", 5*time.Second, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := manager.Token(context.Background()); err != nil {
			t.Fatalf("Token() error = %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1", got)
	}
}

func TestAuthManager_RefreshesNearExpiry(t *testing.T) {
	var calls atomic.Int64
	// Expires inside the 60s safety margin, so every call refreshes.
	server := newTokenServer(t, &calls, 30)
	defer server.Close()

	manager := halo.NewAuthManager(server.URL, "id", "secret", 5*time.Second, zerolog.Nop())

	first, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	second, err := manager.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if first == second {
		t.Errorf("token not refreshed near expiry: %q", first)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("token endpoint called %d times, want 2", got)
	}
}

func TestAuthManager_InvalidateForcesRefresh(t *testing.T) {
	var calls atomic.Int64
	server := newTokenServer(t, &calls, 3600)
	defer server.Close()

	manager := halo.NewAuthManager(server.URL, "id", "secret", 5*time.Second, zerolog.Nop())

	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	manager.Invalidate()
	if _, err := manager.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("token endpoint called %d times, want 2", got)
	}
}

func TestAuthManager_ErrorClassifiedAsUpstreamAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	manager := halo.NewAuthManager(server.URL, "id", "secret", 5*time.Second, zerolog.Nop())

	_, err := manager.Token(context.Background())
	if err == nil {
		t.Fatal("Token() error = nil, want error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUpstreamAuth) {
		t.Errorf("error type = %v, want UPSTREAM_AUTH", err)
	}
}
