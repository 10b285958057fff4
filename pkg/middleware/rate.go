// Package middleware holds the HTTP middleware stack: auth, CORS,
// request logging, panic recovery and rate limiting.
package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/nepkart/pkg/response"
)

type window struct {
	hits    int
	resetAt time.Time
}

// Limiter allows each client a fixed number of requests per window.
// Expired windows are dropped as the limiter is used.
type Limiter struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*window
	nextPrune time.Time
}

func NewLimiter(max int, period time.Duration) *Limiter {
	return &Limiter{max: max, period: period, now: time.Now, clients: map[string]*window{}}
}

// Allow counts one request from key.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.take(key)
	return ok
}

// take counts a hit and, when over budget, how long until the window resets.
func (l *Limiter) take(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextPrune) {
		for k, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, k)
			}
		}
		l.nextPrune = now.Add(l.period)
	}

	w, ok := l.clients[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.clients[key] = w
	}
	w.hits++
	if w.hits <= l.max {
		return true, 0
	}
	return false, w.resetAt.Sub(now)
}

// Handler answers over-budget clients with 429 and Retry-After.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, wait := l.take(clientIP(r)); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit allows max requests per period per client IP.
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	return NewLimiter(max, period).Handler
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
