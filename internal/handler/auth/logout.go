package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shopfront/internal/pkg/ctxutil"
	httpx "shopfront/internal/pkg/http"
)

// Logout 退出登录
// Access Token 不在服务端保存，退出只需客户端丢弃 token；token 在过期前仍然有效
// @Summary      退出登录
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse
// @Failure      401  {object}  httpx.ErrorResponse
// @Router       /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if uid, ok := ctxutil.GetUserID(c.Request.Context()); ok {
		log.Info().Int64("user_id", uid).Msg("user logged out")
	}
	httpx.OK(c, http.StatusOK, "退出成功", nil)
}
