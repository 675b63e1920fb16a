package server

import (
	"sync"
	"time"
)

// rateLimiter caps mutating requests per client inside a rolling window.
// A limit of zero disables throttling, which is how tests run.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*clientWindow
}

type clientWindow struct {
	start time.Time
	count int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
	}
}

// Allow counts one request against the key's current window. Expired
// windows restart; stale clients are dropped once the map grows large.
func (r *rateLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}
	if r.limit <= 0 {
		return true
	}

	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.clients) > 1024 {
		r.prune(now)
	}

	win := r.clients[key]
	if win == nil || now.Sub(win.start) > r.window {
		win = &clientWindow{start: now}
		r.clients[key] = win
	}
	if win.count >= r.limit {
		return false
	}
	win.count++
	return true
}

func (r *rateLimiter) prune(now time.Time) {
	for key, win := range r.clients {
		if now.Sub(win.start) > r.window {
			delete(r.clients, key)
		}
	}
}
