package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"property_listing_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// IPRateLimiter manages per-IP rate limiters. Limiters idle for longer than idleTTL are evicted.
type IPRateLimiter struct {
	limiters  sync.Map
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
	logger    *zap.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter allowing rps requests per second with the given burst.
func NewIPRateLimiter(rps float64, burst int, idleTTL time.Duration, logger *zap.Logger) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	l := &IPRateLimiter{
		rate:    rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		logger:  logger.Named("RateLimiter"),
	}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	now := l.now()
	l.maybeEvict(now)

	v, ok := l.limiters.Load(ip)
	if !ok {
		v, _ = l.limiters.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)})
	}
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(now.UnixNano())
	return cl.limiter
}

// maybeEvict sweeps at most once per idleTTL; only the caller that wins the swap does the work.
func (l *IPRateLimiter) maybeEvict(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.idleTTL).UnixNano()
	evicted := 0
	l.limiters.Range(func(key, value interface{}) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
			evicted++
		}
		return true
	})
	if evicted > 0 {
		l.logger.Debug("Evicted idle rate limiters", zap.Int("count", evicted))
	}
}

// RateLimit returns a middleware that rate limits by client IP.
func (l *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.limiter(ip).Allow() {
			l.logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrTooManyRequest)
			return
		}
		c.Next()
	}
}
