package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"bread-converter/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRateLimiter 每個 window 最多 requests 次，允許一次用完
func NewRateLimiter(requests int, window time.Duration) *rate.Limiter {
	if requests <= 0 || window <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(requests)/window.Seconds()), requests)
}

// RateLimit 限流中間件（全域令牌桶）
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		r := limiter.Reserve()
		if !r.OK() || r.Delay() > 0 {
			retry := r.Delay()
			r.Cancel()
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retry.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response())
			return
		}

		c.Next()
	}
}
