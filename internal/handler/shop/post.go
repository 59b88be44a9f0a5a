package shop

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
)

// PostRequest 发帖/修改帖子请求；修改时空字段保持不变
type PostRequest struct {
	Title   string `json:"title" binding:"max=200"`
	Content string `json:"content"`
}

// CommentRequest 评论请求
type CommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// ListPosts 帖子列表
// @Summary      帖子列表
// @Tags         社区
// @Produce      json
// @Param        q          query     string  false  "标题关键字"
// @Param        page       query     int     false  "页码"
// @Param        page_size  query     int     false  "每页数量"
// @Success      200  {object}  httpx.SuccessResponse{data=httpx.PageData}
// @Router       /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	posts, total, err := h.shopService.ListPosts(c.Request.Context(), q.params())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	page, size := pageOf(q)
	httpx.OK(c, http.StatusOK, "success", httpx.NewPageData(posts, total, page, size))
}

// GetPost 帖子详情
// @Summary      帖子详情
// @Tags         社区
// @Produce      json
// @Param        id   path      int  true  "帖子ID"
// @Success      200  {object}  httpx.SuccessResponse{data=shop.Post}
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	post, err := h.shopService.GetPost(c.Request.Context(), postID)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "success", post)
}

// CreatePost 发帖
// @Summary      发帖
// @Tags         社区
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      PostRequest  true  "帖子"
// @Success      201      {object}  httpx.SuccessResponse{data=shop.Post}
// @Router       /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	post, err := h.shopService.CreatePost(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusCreated, "发布成功", post)
}

// UpdatePost 修改本人帖子
// @Summary      修改帖子
// @Tags         社区
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int          true  "帖子ID"
// @Param        request  body      PostRequest  true  "帖子"
// @Success      200      {object}  httpx.SuccessResponse{data=shop.Post}
// @Failure      403      {object}  httpx.ErrorResponse
// @Router       /api/v1/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	post, err := h.shopService.UpdatePost(c.Request.Context(), postID, req.Title, req.Content)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "更新成功", post)
}

// DeletePost 删除帖子（作者、管理员或版主），评论一并删除
// @Summary      删除帖子
// @Tags         社区
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "帖子ID"
// @Success      200  {object}  httpx.SuccessResponse
// @Failure      403  {object}  httpx.ErrorResponse
// @Router       /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.shopService.DeletePost(c.Request.Context(), postID); err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "删除成功", nil)
}

// ListComments 帖子评论
// @Summary      帖子评论
// @Tags         社区
// @Produce      json
// @Param        id         path      int  true   "帖子ID"
// @Param        page       query     int  false  "页码"
// @Param        page_size  query     int  false  "每页数量"
// @Success      200  {object}  httpx.SuccessResponse{data=httpx.PageData}
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	comments, total, err := h.shopService.ListComments(c.Request.Context(), postID, q.Page, q.PageSize)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	page, size := pageOf(q)
	httpx.OK(c, http.StatusOK, "success", httpx.NewPageData(comments, total, page, size))
}

// AddComment 发表评论
// @Summary      发表评论
// @Tags         社区
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true  "帖子ID"
// @Param        request  body      CommentRequest  true  "评论"
// @Success      201      {object}  httpx.SuccessResponse{data=shop.Comment}
// @Failure      404      {object}  httpx.ErrorResponse
// @Router       /api/v1/posts/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	comment, err := h.shopService.AddComment(c.Request.Context(), postID, req.Content)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusCreated, "评论成功", comment)
}

// DeleteComment 删除评论（作者、管理员或版主）
// @Summary      删除评论
// @Tags         社区
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "评论ID"
// @Success      200  {object}  httpx.SuccessResponse
// @Failure      403  {object}  httpx.ErrorResponse
// @Router       /api/v1/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.shopService.DeleteComment(c.Request.Context(), commentID); err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "删除成功", nil)
}
