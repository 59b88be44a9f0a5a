package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
)

// SearchUsers 按关键字查询用户（管理员）
// @Summary      查询用户
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "用户名或邮箱关键字"
// @Success      200  {object}  httpx.SuccessResponse{data=[]UserInfo}
// @Failure      403  {object}  httpx.ErrorResponse
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	users, err := h.authService.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, toUserInfo(u))
	}
	httpx.OK(c, http.StatusOK, "success", infos)
}

// DeleteUser 删除用户（管理员）
// @Summary      删除用户
// @Tags         用户管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "用户ID"
// @Success      200  {object}  httpx.SuccessResponse
// @Failure      403  {object}  httpx.ErrorResponse
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}

	if err := h.authService.DeleteUser(c.Request.Context(), userID); err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "删除成功", nil)
}
