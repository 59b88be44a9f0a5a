package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
)

// Recovery 异常恢复中间件
// 处理链中的 panic（例如未认证 context 调用了当前用户解析）记录堆栈后返回 500；
// 客户端断开导致的写失败只记录，不再写响应
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if brokenPipe(rec) {
				log.Warn().
					Interface("error", rec).
					Str("path", c.Request.URL.Path).
					Msg("client connection closed")
				c.Abort()
				return
			}

			log.Error().
				Interface("error", rec).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("request_id", c.GetString("request_id")).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			httpx.Abort(c, http.StatusInternalServerError, handler.CodeInternal, "Internal Server Error")
		}()
		c.Next()
	}
}

func brokenPipe(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr, &sysErr) {
		msg := strings.ToLower(sysErr.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}
