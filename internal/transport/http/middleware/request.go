package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

const (
	RequestIDHeader     = "X-Request-ID"
	contextRequestIDKey = "request_id"
)

// RequestID tags the request and stores a logger carrying the id in the
// request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(contextRequestIDKey, requestID)

		l := log.Logger.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), l))
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(contextRequestIDKey)
}

// RequestLogger logs each finished request; the level follows the status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		l := logger.FromContext(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		ev.Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.FromContext(c.Request.Context()).Error().
					Interface("panic", err).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				response.Abort(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
			}
		}()
		c.Next()
	}
}
