package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
	"shopfront/internal/service"
)

// UpdateMeRequest 更新当前用户资料，空字段不修改
type UpdateMeRequest struct {
	Username string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty" binding:"omitempty,min=6"`
}

// GetMe 获取当前用户信息
// @Summary      获取当前用户信息
// @Description  获取当前登录用户的详细信息；token 有效但账号已删除时返回 404
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse{data=UserInfo}
// @Failure      401  {object}  httpx.ErrorResponse
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.authService.Resolver().CurrentUser(c.Request.Context())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	httpx.OK(c, http.StatusOK, "success", toUserInfo(user))
}

// UpdateMe 更新当前用户资料
// @Summary      更新当前用户资料
// @Tags         认证
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      UpdateMeRequest  true  "资料"
// @Success      200      {object}  httpx.SuccessResponse{data=UserInfo}
// @Failure      400      {object}  httpx.ErrorResponse
// @Failure      409      {object}  httpx.ErrorResponse
// @Router       /api/v1/auth/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	httpx.OK(c, http.StatusOK, "更新成功", toUserInfo(user))
}
