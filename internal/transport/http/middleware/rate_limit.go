package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RateLimit throttles per caller within scope. Authenticated callers are
// keyed by user id, everyone else by client IP; the access key is chosen by
// the client and never used as a key. A nil limiter disables the check.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := scope + ":" + callerKey(c)
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
		}
		if !allowed {
			logger.FromContext(c.Request.Context()).Warn().Str("key", key).Msg("rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			response.Abort(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if id, ok := UserID(c); ok {
		return fmt.Sprintf("user:%d", id)
	}
	return "ip:" + c.ClientIP()
}
