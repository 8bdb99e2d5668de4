package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

const (
	AccessKeyHeader = "X-Access-Key"
	contextOwnerKey = "owner"
	maxAccessKeyLen = 64
)

// ResolveOwner decides who owns the resources touched by the request. A
// signed-in user wins; anonymous clients are identified by X-Access-Key,
// and a fresh key is issued in the response header when none is sent.
// Must run after AuthOptional.
func ResolveOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := UserID(c); ok {
			c.Set(contextOwnerKey, model.UserOwner(id))
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader(AccessKeyHeader))
		if key == "" || len(key) > maxAccessKeyLen {
			key = uuid.NewString()
		}
		c.Header(AccessKeyHeader, key)
		c.Set(contextOwnerKey, model.AnonymousOwner(key))
		c.Next()
	}
}

// Owner returns the owner set by ResolveOwner.
func Owner(c *gin.Context) model.Owner {
	if v, ok := c.Get(contextOwnerKey); ok {
		if o, ok := v.(model.Owner); ok {
			return o
		}
	}
	return model.Owner{}
}
