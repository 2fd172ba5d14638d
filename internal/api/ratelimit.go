package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clientIdleTTL is how long an unused client limiter is kept.
	clientIdleTTL = 10 * time.Minute
	// maxClients bounds the number of tracked client addresses.
	maxClients = 10000
)

type clientEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// clientLimiter rate-limits requests per client address. Idle clients are swept
// once per clientIdleTTL, and the least recently seen client is evicted when the
// table is full.
type clientLimiter struct {
	mu        sync.Mutex
	m         map[string]*clientEntry
	r         rate.Limit
	b         int
	idle      time.Duration
	max       int
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(reqPerSec float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		m:         make(map[string]*clientEntry),
		r:         rate.Limit(reqPerSec),
		b:         burst,
		idle:      clientIdleTTL,
		max:       maxClients,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (cl *clientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if now.Sub(cl.lastSweep) >= cl.idle {
		cl.sweep(now)
	}

	if e, ok := cl.m[client]; ok {
		e.lastSeen = now
		return e.lim
	}

	if len(cl.m) >= cl.max {
		cl.sweep(now)
		if len(cl.m) >= cl.max {
			cl.evictOldest()
		}
	}
	e := &clientEntry{lim: rate.NewLimiter(cl.r, cl.b), lastSeen: now}
	cl.m[client] = e
	return e.lim
}

// sweep drops clients idle for longer than cl.idle. Callers hold cl.mu.
func (cl *clientLimiter) sweep(now time.Time) {
	for k, e := range cl.m {
		if now.Sub(e.lastSeen) > cl.idle {
			delete(cl.m, k)
		}
	}
	cl.lastSweep = now
}

func (cl *clientLimiter) evictOldest() {
	var (
		oldest string
		seen   time.Time
		found  bool
	)
	for k, e := range cl.m {
		if !found || e.lastSeen.Before(seen) {
			oldest, seen, found = k, e.lastSeen, true
		}
	}
	if found {
		delete(cl.m, oldest)
	}
}

func (cl *clientLimiter) size() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.m)
}

func (cl *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !cl.limiterFor(clientKey(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the request's host address without the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
