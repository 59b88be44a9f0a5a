package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shopfront/internal/config"
	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTimeout   = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit 按客户端 IP 的令牌桶限流，用于登录/注册等易被暴力尝试的接口。
// RequestsPerSecond <= 0 时不限流。
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*clientLimiter)
		lastSweep = time.Now()
	)

	getLimiter := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastSweep) > limiterSweepInterval {
			for k, cl := range clients {
				if now.Sub(cl.lastSeen) > limiterIdleTimeout {
					delete(clients, k)
				}
			}
			lastSweep = now
		}

		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		return cl.limiter
	}

	return func(c *gin.Context) {
		limiter := getLimiter(c.ClientIP())

		reservation := limiter.Reserve()
		if !reservation.OK() {
			httpx.Abort(c, http.StatusTooManyRequests, handler.CodeTooManyRequests, "rate limit exceeded")
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			httpx.Abort(c, http.StatusTooManyRequests, handler.CodeTooManyRequests, "rate limit exceeded")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(burst))
		c.Next()
	}
}
