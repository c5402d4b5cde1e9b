package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP's limiter survives without requests.
const limiterIdleTTL = 10 * time.Minute

// RateLimiter throttles requests per client IP. Limiters of idle IPs are evicted.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	rps      rate.Limit
	burst    int

	whitelistedIPs map[string]bool
}

func NewRateLimiter(rps float64, burst int, whitelist ...string) *RateLimiter {
	return newRateLimiter(rps, burst, limiterIdleTTL, whitelist...)
}

func newRateLimiter(rps float64, burst int, idleTTL time.Duration, whitelist ...string) *RateLimiter {
	wl := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		wl[ip] = true
	}
	return &RateLimiter{
		limiters:       cache.New(idleTTL, idleTTL),
		rps:            rate.Limit(rps),
		burst:          burst,
		whitelistedIPs: wl,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
	}
	// Re-set on every hit so the idle timer restarts.
	rl.limiters.SetDefault(ip, limiter)
	return limiter.(*rate.Limiter)
}

// TrackedIPs is the number of IPs currently holding a limiter.
func (rl *RateLimiter) TrackedIPs() int {
	return rl.limiters.ItemCount()
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if rl.whitelistedIPs[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(ip).Allow() {
			logging.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
