package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestDomainLimiter_PerHost(t *testing.T) {
	dl := NewDomainLimiter(10, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := dl.Wait(ctx, "https://a.example/page"); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("Expected same-host requests to be paced, took %v", elapsed)
	}

	start = time.Now()
	if err := dl.Wait(ctx, "https://b.example/"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("A new host should not wait, took %v", elapsed)
	}

	if dl.Hosts() != 2 {
		t.Errorf("Expected 2 hosts, got %d", dl.Hosts())
	}
}

func TestDomainLimiter_HostNormalised(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	dl.Wait(context.Background(), "https://News.Example.com/a")
	dl.Wait(context.Background(), "https://news.example.com:443/b")
	if dl.Hosts() != 1 {
		t.Errorf("Expected case and port to be ignored, got %d hosts", dl.Hosts())
	}
}

func TestDomainLimiter_ContextCancelled(t *testing.T) {
	dl := NewDomainLimiter(0.1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := dl.Wait(ctx, "https://slow.example/"); err != nil {
		t.Fatalf("First Wait should use the burst token: %v", err)
	}
	cancel()
	if err := dl.Wait(ctx, "https://slow.example/"); err == nil {
		t.Error("Expected error from cancelled context")
	}
}

func TestDomainLimiter_InvalidURL(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	if err := dl.Wait(context.Background(), "::not a url"); err != nil {
		t.Errorf("Invalid URL should pass through, got %v", err)
	}
}
