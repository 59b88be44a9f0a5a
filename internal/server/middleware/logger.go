package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// probePaths 探针请求只在 debug 级别记录
var probePaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// Logger 访问日志中间件
// 不记录请求体、query 与 Authorization header（可能包含密码、OAuth2 code）
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		case probePaths[path]:
			event = log.Debug()
		}
		if !event.Enabled() {
			return
		}

		if uid := c.GetInt64("user_id"); uid != 0 {
			event = event.Int64("user_id", uid)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Int("body_size", c.Writer.Size()).
			Msg("HTTP request")
	}
}
