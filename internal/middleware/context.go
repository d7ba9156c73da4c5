package middleware

import (
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gin-gonic/gin"
)

// RequestContext seeds every request context with a request id, client
// address, and timing so downstream log lines correlate
func RequestContext(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, module, c.Request.URL.Path)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
