package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/pkg/telemetry/correlation"
)

// RequestID propagates or generates a correlation ID and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = correlation.ContextWithCorrelationID(ctx, c.GetHeader(correlation.HeaderRequestID))
		ctx = correlation.ContextWithTraceparent(ctx, c.GetHeader("traceparent"))
		ctx, id := correlation.EnsureCorrelationID(ctx)

		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", id)
		c.Header(correlation.HeaderRequestID, id)
		c.Next()
	}
}
