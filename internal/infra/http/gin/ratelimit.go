package ginserver

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	gin "github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter applies a per-client-IP token bucket across the proxy surface.
type IPRateLimiter struct {
	visitors sync.Map
	rps      rate.Limit
	burst    int
	logger   *slog.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(perMinute int, logger *slog.Logger) *IPRateLimiter {
	l := &IPRateLimiter{
		rps:    rate.Limit(float64(perMinute) / 60.0),
		burst:  5,
		logger: logger,
		stop:   make(chan struct{}),
	}
	go l.cleanupVisitors()
	return l
}

// Close stops the background visitor sweeper.
func (l *IPRateLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := l.visitors.Load(ip); ok {
		vi := v.(*visitor)
		vi.lastSeen = time.Now()
		return vi.limiter
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.visitors.Store(ip, &visitor{limiter: lim, lastSeen: time.Now()})
	return lim
}

func (l *IPRateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-5 * time.Minute)
			l.visitors.Range(func(k, v any) bool {
				if v.(*visitor).lastSeen.Before(cutoff) {
					l.visitors.Delete(k)
				}
				return true
			})
		}
	}
}

func (l *IPRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.getLimiter(ip).Allow() {
			if l.logger != nil {
				l.logger.Warn("rate limit exceeded", "ip", ip, "path", c.FullPath())
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
