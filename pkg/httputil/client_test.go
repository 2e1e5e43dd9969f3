package httputil

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/forcefield/pkg/cache"
	"github.com/matzehuels/forcefield/pkg/errors"
)

func TestClientGetCachesResponse(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"nodes":[]}`))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	client := &Client{Cache: fc}

	ctx := context.Background()
	first, err := client.Get(ctx, srv.URL)
	if err != nil {
		t.Fatalf("first Get: %v", err)
	}
	second, err := client.Get(ctx, srv.URL)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}

	if string(first) != `{"nodes":[]}` || string(second) != string(first) {
		t.Errorf("bodies = %q, %q", first, second)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestClientGetRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := &Client{Delay: time.Millisecond}
	body, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits = %d, want 3", got)
	}
}

func TestClientGetNotFoundIsTerminal(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := &Client{Delay: time.Millisecond}
	_, err := client.Get(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (no retries on 404)", got)
	}
}

func TestClientGetRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := &Client{Attempts: 2, Delay: time.Millisecond}
	_, err := client.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Get should fail when every attempt is rate limited")
	}

	var rle *errors.RateLimitedError
	if !stderrors.As(err, &rle) {
		t.Fatalf("err = %v, want RateLimitedError", err)
	}
	if rle.RetryAfter != 7 {
		t.Errorf("RetryAfter = %d, want 7", rle.RetryAfter)
	}
}

func TestClientGetWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain"))
	}))
	defer srv.Close()

	body, err := new(Client).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "plain" {
		t.Errorf("body = %q, want plain", body)
	}
}
