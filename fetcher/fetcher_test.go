package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	got, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got) != "image-bytes" {
		t.Errorf("body: got %q, want %q", got, "image-bytes")
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := New(WithUserAgent("test-agent/2.0"))
	if _, err := c.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotUA != "test-agent/2.0" {
		t.Errorf("User-Agent: got %q, want %q", gotUA, "test-agent/2.0")
	}
}

func TestFetch_JarRetainsSessionCookies(t *testing.T) {
	// First response sets a session cookie; the second request must carry it
	// back, the way an authenticated viewer session behaves.
	var second *http.Cookie
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok123", Path: "/"})
		default:
			second, _ = r.Cookie("session")
		}
	}))
	defer srv.Close()

	c := New()
	ctx := context.Background()
	if _, err := c.Fetch(ctx, srv.URL+"/login"); err != nil {
		t.Fatalf("login fetch: %v", err)
	}
	if _, err := c.Fetch(ctx, srv.URL+"/asset"); err != nil {
		t.Fatalf("asset fetch: %v", err)
	}
	if second == nil || second.Value != "tok123" {
		t.Errorf("session cookie not replayed: got %v", second)
	}
}
