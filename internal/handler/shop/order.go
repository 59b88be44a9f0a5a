package shop

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	"shopfront/internal/model/shop"
	httpx "shopfront/internal/pkg/http"
)

// UpdateOrderStatusRequest 修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status shop.OrderStatus `json:"status" binding:"required,oneof=pending paid shipped completed cancelled"`
}

// CreateOrder 以购物车下单
// @Summary      下单
// @Description  以当前购物车内容下单，按下单时价格快照计价并清空购物车
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  httpx.SuccessResponse{data=shop.Order}
// @Failure      400  {object}  httpx.ErrorResponse
// @Failure      409  {object}  httpx.ErrorResponse
// @Router       /api/v1/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	order, err := h.shopService.CreateOrderFromCart(c.Request.Context())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusCreated, "下单成功", order)
}

// ListOrders 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "页码"
// @Param        page_size  query     int  false  "每页数量"
// @Success      200  {object}  httpx.SuccessResponse{data=httpx.PageData}
// @Router       /api/v1/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	orders, total, err := h.shopService.ListOrders(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	page, size := pageOf(q)
	httpx.OK(c, http.StatusOK, "success", httpx.NewPageData(orders, total, page, size))
}

// GetOrder 订单详情（本人或管理员）
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "订单ID"
// @Success      200  {object}  httpx.SuccessResponse{data=shop.Order}
// @Failure      403  {object}  httpx.ErrorResponse
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.shopService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "success", order)
}

// CancelOrder 取消待支付订单
// @Summary      取消订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "订单ID"
// @Success      200  {object}  httpx.SuccessResponse{data=shop.Order}
// @Failure      409  {object}  httpx.ErrorResponse
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.shopService.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "订单已取消", order)
}

// UpdateOrderStatus 修改订单状态（管理员）
// @Summary      修改订单状态
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                       true  "订单ID"
// @Param        request  body      UpdateOrderStatusRequest  true  "目标状态"
// @Success      200      {object}  httpx.SuccessResponse{data=shop.Order}
// @Failure      409      {object}  httpx.ErrorResponse
// @Router       /api/v1/orders/{id}/status [put]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	order, err := h.shopService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "更新成功", order)
}
