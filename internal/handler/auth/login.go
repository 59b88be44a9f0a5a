package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
)

// LoginRequest 用户登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名（必填）
	Password string `json:"password" binding:"required"` // 密码（必填）
}

// Login 用户登录
// @Summary      用户登录
// @Description  本地账号登录，返回Access Token与用户信息
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200      {object}  httpx.SuccessResponse{data=LoginResponseData}
// @Failure      400      {object}  httpx.ErrorResponse
// @Failure      401      {object}  httpx.ErrorResponse
// @Failure      403      {object}  httpx.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	httpx.OK(c, http.StatusOK, "登录成功", toLoginResponse(result))
}
