package middleware

import (
	"github.com/gin-gonic/gin"

	"shopfront/internal/pkg/id"
)

const requestIDHeader = "X-Request-ID"

// RequestID 为每个请求分配 request id；客户端已携带时沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > 64 {
			rid = id.New()
		}
		c.Set("request_id", rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
