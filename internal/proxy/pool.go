package proxy

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

type ctxKey struct{}

// Pool rotates requests across a fixed proxy list, skipping proxies that
// failed within the cooldown window.
type Pool struct {
	proxies  []string
	index    int
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewPool creates a Pool. Blank entries are dropped.
func NewPool(proxies []string) *Pool {
	var cleaned []string
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return &Pool{
		proxies:  cleaned,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy is cooling down the
// one at the cursor is returned anyway.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[candidate]
		if !ok {
			return candidate
		}
		if p.now().Sub(failedAt) >= p.cooldown {
			delete(p.failed, candidate)
			return candidate
		}
		if p.index == start {
			return candidate
		}
	}
}

// MarkFailed puts a proxy on cooldown
func (p *Pool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = p.now()
}

// MarkHealthy clears a proxy's cooldown
func (p *Pool) MarkHealthy(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

// WithProxy pins the proxy a request should use
func WithProxy(ctx context.Context, proxy string) context.Context {
	return context.WithValue(ctx, ctxKey{}, proxy)
}

// FromContext returns the proxy pinned by WithProxy, if any
func FromContext(ctx context.Context) string {
	if p, ok := ctx.Value(ctxKey{}).(string); ok {
		return p
	}
	return ""
}

// TransportProxy is an http.Transport Proxy func that honours the proxy
// pinned on the request context and falls back to the environment.
func TransportProxy(req *http.Request) (*url.URL, error) {
	if p := FromContext(req.Context()); p != "" {
		return url.Parse(p)
	}
	return http.ProxyFromEnvironment(req)
}
