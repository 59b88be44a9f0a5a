package shop

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ListCartItems 我的购物车
// @Summary      我的购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.SuccessResponse{data=[]shop.CartItem}
// @Router       /api/v1/cart/items [get]
func (h *Handler) ListCartItems(c *gin.Context) {
	items, err := h.shopService.ListCartItems(c.Request.Context())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "success", items)
}

// AddCartItem 加入购物车
// @Summary      加入购物车
// @Description  同一商品再次加入时累加数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      AddCartItemRequest  true  "商品与数量"
// @Success      200      {object}  httpx.SuccessResponse{data=shop.CartItem}
// @Failure      404      {object}  httpx.ErrorResponse
// @Failure      409      {object}  httpx.ErrorResponse
// @Router       /api/v1/cart/items [post]
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	item, err := h.shopService.AddCartItem(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "已加入购物车", item)
}

// UpdateCartItem 修改购物车条目数量
// @Summary      修改购物车数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                    true  "条目ID"
// @Param        request  body      UpdateCartItemRequest  true  "数量"
// @Success      200      {object}  httpx.SuccessResponse{data=shop.CartItem}
// @Failure      403      {object}  httpx.ErrorResponse
// @Router       /api/v1/cart/items/{id} [put]
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	item, err := h.shopService.UpdateCartItem(c.Request.Context(), itemID, req.Quantity)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "更新成功", item)
}

// RemoveCartItem 删除购物车条目
// @Summary      删除购物车条目
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "条目ID"
// @Success      200  {object}  httpx.SuccessResponse
// @Failure      403  {object}  httpx.ErrorResponse
// @Router       /api/v1/cart/items/{id} [delete]
func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.shopService.RemoveCartItem(c.Request.Context(), itemID); err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "删除成功", nil)
}
