package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
	"shopfront/internal/service"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"` // 用户名（必填，3-50字符）
	Email    string   `json:"email" binding:"required,email"`           // 邮箱（必填，需符合邮箱格式）
	Password string   `json:"password" binding:"required,min=6"`        // 密码（必填，至少6位）
	Phone    string   `json:"phone,omitempty"`                          // 手机号（可选）
	Roles    []string `json:"roles,omitempty"`                          // 角色：admin/moderator/user，未知值忽略
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册本地账号，未指定角色时为 ROLE_USER；auth.allow_role_request=false 时忽略 roles
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      201      {object}  httpx.SuccessResponse{data=UserInfo}
// @Failure      400      {object}  httpx.ErrorResponse
// @Failure      409      {object}  httpx.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}

	in := service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Roles:    req.Roles,
	}
	if !h.allowRoleRequest {
		in.Roles = nil
	}

	user, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	httpx.OK(c, http.StatusCreated, "注册成功", toUserInfo(user))
}
