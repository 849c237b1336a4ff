package httpx

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token-bucket rate limit.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

var (
	// StrictLimit protects authentication endpoints against brute force.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// LenientLimit for everything else; the only client is the local UI.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

// KeyExtractor derives a rate-limit bucket key from a request.
type KeyExtractor func(*http.Request) string

// IPKey extracts the client IP, honouring X-Forwarded-For / X-Real-IP.
func IPKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	lastGC   time.Time
}

func newLimiterPool(cfg RateLimitConfig) *limiterPool {
	return &limiterPool{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(cfg.Window / time.Duration(cfg.RequestsPerWindow)),
		burst:    cfg.Burst,
		lastGC:   time.Now(),
	}
}

func (p *limiterPool) allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Drop the whole pool occasionally instead of tracking per-key age;
	// buckets refill to full burst, which only errs on the permissive side.
	if time.Since(p.lastGC) > time.Hour {
		p.limiters = make(map[string]*rate.Limiter)
		p.lastGC = time.Now()
	}

	l, ok := p.limiters[key]
	if !ok {
		l = rate.NewLimiter(p.rate, p.burst)
		p.limiters[key] = l
	}
	return l.Allow()
}

// RateLimit returns middleware enforcing cfg per key.
func RateLimit(cfg RateLimitConfig, key KeyExtractor) Middleware {
	pool := newLimiterPool(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.allow(key(r)) {
				w.Header().Set("Retry-After", "60")
				WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP is RateLimit keyed on the client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, IPKey)
}
