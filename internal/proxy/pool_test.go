package proxy

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestPoolRotation(t *testing.T) {
	pool := NewPool([]string{"http://p1", "http://p2", " ", "http://p3"})

	if pool.Len() != 3 {
		t.Fatalf("Expected 3 proxies, got %d", pool.Len())
	}

	for _, want := range []string{"http://p1", "http://p2", "http://p3", "http://p1"} {
		if got := pool.Next(); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	}

	pool.MarkFailed("http://p2")

	if p := pool.Next(); p != "http://p3" {
		t.Errorf("Expected p3 (skipping p2), got %s", p)
	}
	if p := pool.Next(); p != "http://p1" {
		t.Errorf("Expected p1, got %s", p)
	}

	pool.MarkHealthy("http://p2")
	if p := pool.Next(); p != "http://p2" {
		t.Errorf("Expected p2 after MarkHealthy, got %s", p)
	}
}

func TestPoolCooldownExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	pool := NewPool([]string{"a", "b"})
	pool.now = func() time.Time { return now }

	pool.MarkFailed("a")
	if p := pool.Next(); p != "b" {
		t.Fatalf("Expected b while a cools down, got %s", p)
	}

	now = now.Add(DefaultCooldown)
	if p := pool.Next(); p != "a" {
		t.Errorf("Expected a after cooldown, got %s", p)
	}
}

func TestPoolAllFailed(t *testing.T) {
	pool := NewPool([]string{"a"})
	pool.MarkFailed("a")
	if p := pool.Next(); p != "a" {
		t.Errorf("Expected a even when failed, got %s", p)
	}

	empty := NewPool(nil)
	if p := empty.Next(); p != "" {
		t.Errorf("Expected empty proxy from empty pool, got %s", p)
	}
}

func TestTransportProxy(t *testing.T) {
	req, _ := http.NewRequestWithContext(WithProxy(context.Background(), "http://127.0.0.1:8080"), "GET", "http://example.com", nil)
	u, err := TransportProxy(req)
	if err != nil {
		t.Fatalf("TransportProxy failed: %v", err)
	}
	if u == nil || u.Host != "127.0.0.1:8080" {
		t.Errorf("Expected pinned proxy, got %v", u)
	}
}
