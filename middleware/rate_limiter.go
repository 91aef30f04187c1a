package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Per-IP budget: generous enough for polling clients checking payment status,
// tight enough to blunt a scripted initiate loop.
const (
	requestsPerMinute = 200
	burstSize         = 200
)

// ipLimiters tracks one token bucket per caller address.
type ipLimiters struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

var limiters = &ipLimiters{buckets: make(map[string]*rate.Limiter)}

func (l *ipLimiters) bucketFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[ip]
	if !ok {
		bucket = rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), burstSize)
		l.buckets[ip] = bucket
	}
	return bucket
}

// RateLimitMiddleware rejects callers that exhaust their per-IP budget.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !limiters.bucketFor(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
