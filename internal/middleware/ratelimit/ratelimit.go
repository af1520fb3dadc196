// Package ratelimit throttles requests per client key within a fixed window.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time

	limit  int
	window time.Duration
}

type clientInfo struct {
	windowStart time.Time
	requests    int
}

// Config holds rate limiter configuration
type Config struct {
	Requests int
	Window   time.Duration
}

// LoginConfig allows ten login attempts per client per minute.
func LoginConfig() Config {
	return Config{Requests: 10, Window: time.Minute}
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	if config.Requests <= 0 || config.Window <= 0 {
		config = LoginConfig()
	}
	return &Limiter{
		clients: make(map[string]*clientInfo),
		now:     time.Now,
		limit:   config.Requests,
		window:  config.Window,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *Limiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictLocked(now)

	client, ok := rl.clients[key]
	if !ok || now.Sub(client.windowStart) >= rl.window {
		rl.clients[key] = &clientInfo{windowStart: now, requests: 1}
		return true
	}
	client.requests++
	return client.requests <= rl.limit
}

// evictLocked drops expired windows so the map stays bounded by the number
// of clients seen in the last window.
func (rl *Limiter) evictLocked(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.windowStart) >= rl.window {
			delete(rl.clients, key)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware rejects requests over the limit with 429.
func (rl *Limiter) Middleware(extractKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(extractKey(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
