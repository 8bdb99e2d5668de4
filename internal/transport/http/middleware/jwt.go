package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/jwtutil"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// AuthJWT rejects requests without a valid bearer token.
func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			return
		}

		claims, msg := parseBearer(secret, authHeader)
		if claims == nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, msg)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// AuthOptional attaches the user when a valid bearer token is sent and
// otherwise lets the request through anonymously. A malformed or expired
// token is still rejected so clients notice a stale login.
func AuthOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}

		claims, msg := parseBearer(secret, authHeader)
		if claims == nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, msg)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

func parseBearer(secret, header string) (*jwtutil.Claims, string) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, "invalid authorization scheme"
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	claims, err := jwtutil.ParseToken(secret, token)
	if err != nil {
		return nil, "invalid or expired token"
	}
	return claims, ""
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
