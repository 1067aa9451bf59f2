package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/V4T54L/leatherstore/internal/adapter/metrics"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 1024
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client address.
type ClientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewClientLimiter allows perMinute requests per client with the given burst.
func NewClientLimiter(perMinute, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow takes one token from key's bucket.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.buckets) >= limiterSweepSize {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > limiterIdleTTL {
				delete(l.buckets, k)
			}
		}
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// LoginRateLimit throttles POST requests per client address. Each throttled attempt
// is recorded as a rejected login on the auth channel.
func LoginRateLimit(limiter *ClientLimiter, actions *logger.ActionLogger, m *metrics.StorefrontMetrics, responder Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || limiter.Allow(logger.ClientAddress(r.Context())) {
				next.ServeHTTP(w, r)
				return
			}
			if m != nil {
				m.LoginThrottled.Inc()
			}
			actions.Reject(r.Context(), logger.Action{Name: usecase.ActionUserLogin, Channel: logger.ChannelAuth}, usecase.ReasonRateLimited)
			responder.TooManyRequests(w, r)
		})
	}
}
