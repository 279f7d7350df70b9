// Package ratelimit provides a fixed-window, per-client request limiter.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"wedding-site/internal/apperrors"
	"wedding-site/internal/response"
)

// Config defines rate limiting parameters.
type Config struct {
	// RequestsPerWindow is the maximum requests allowed per window. Zero
	// disables limiting.
	RequestsPerWindow int64

	// Window is the time window for rate limiting.
	Window time.Duration

	// TrustProxy keys clients on the first X-Forwarded-For hop instead of
	// the connection address.
	TrustProxy bool
}

type counter struct {
	count   int64
	resetAt time.Time
}

// Limiter counts requests per key in memory.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	config   Config
	now      func() time.Time

	stopOnce  sync.Once
	stopClean chan struct{}
}

// New creates a new rate limiter. cleanupInterval specifies how often to
// drop expired windows (0 disables).
func New(cfg Config, cleanupInterval time.Duration) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	l := &Limiter{
		counters:  make(map[string]*counter),
		config:    cfg,
		now:       time.Now,
		stopClean: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go l.cleanupLoop(cleanupInterval)
	}
	return l
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.deleteExpired()
		case <-l.stopClean:
			return
		}
	}
}

func (l *Limiter) deleteExpired() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, c := range l.counters {
		if !now.Before(c.resetAt) {
			delete(l.counters, k)
		}
	}
}

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stopClean) })
}

// Result contains the rate limit check result.
type Result struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// Allow counts a request for key and reports whether it fits the window.
func (l *Limiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &counter{resetAt: now.Add(l.config.Window)}
		l.counters[key] = c
	}
	c.count++

	remaining := l.config.RequestsPerWindow - c.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   c.count <= l.config.RequestsPerWindow,
		Remaining: remaining,
		ResetAt:   c.resetAt,
	}
}

// KeyFromRequest extracts a rate limit key from an HTTP request. The first
// X-Forwarded-For hop is used only when trustProxy is set; otherwise the
// host of RemoteAddr.
func KeyFromRequest(r *http.Request, trustProxy bool) string {
	if xff := r.Header.Get("X-Forwarded-For"); trustProxy && xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns an HTTP middleware that applies rate limiting.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.config.RequestsPerWindow <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		result := l.Allow(KeyFromRequest(r, l.config.TrustProxy))

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.config.RequestsPerWindow))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			retry := int(result.ResetAt.Sub(l.now()).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
			response.Error(w, apperrors.ErrRateLimit)
			return
		}

		next.ServeHTTP(w, r)
	})
}
