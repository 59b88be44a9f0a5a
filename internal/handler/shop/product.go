package shop

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	httpx "shopfront/internal/pkg/http"
	shopService "shopfront/internal/service/shop"
)

// ProductRequest 商品创建/更新请求，价格单位为分
type ProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price" binding:"min=0"`
	Stock       int    `json:"stock" binding:"min=0"`
	OnSale      bool   `json:"on_sale"`
}

func (r ProductRequest) input() shopService.ProductInput {
	return shopService.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		OnSale:      r.OnSale,
	}
}

// ListProducts 商品列表
// @Summary      商品列表
// @Tags         商品
// @Produce      json
// @Param        q          query     string  false  "名称关键字"
// @Param        category   query     string  false  "分类"
// @Param        page       query     int     false  "页码"
// @Param        page_size  query     int     false  "每页数量"
// @Success      200  {object}  httpx.SuccessResponse{data=httpx.PageData}
// @Router       /api/v1/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}

	products, total, err := h.shopService.ListProducts(c.Request.Context(), q.params())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	page, size := pageOf(q)
	httpx.OK(c, http.StatusOK, "success", httpx.NewPageData(products, total, page, size))
}

// GetProduct 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Param        id   path      int  true  "商品ID"
// @Success      200  {object}  httpx.SuccessResponse{data=shop.Product}
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.shopService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "success", product)
}

// CreateProduct 创建商品（管理员）
// @Summary      创建商品
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ProductRequest  true  "商品"
// @Success      201      {object}  httpx.SuccessResponse{data=shop.Product}
// @Failure      403      {object}  httpx.ErrorResponse
// @Router       /api/v1/products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	product, err := h.shopService.CreateProduct(c.Request.Context(), req.input())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusCreated, "创建成功", product)
}

// UpdateProduct 更新商品（管理员）
// @Summary      更新商品
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true  "商品ID"
// @Param        request  body      ProductRequest  true  "商品"
// @Success      200      {object}  httpx.SuccessResponse{data=shop.Product}
// @Failure      404      {object}  httpx.ErrorResponse
// @Router       /api/v1/products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.AbortInvalidRequest(c, err)
		return
	}
	product, err := h.shopService.UpdateProduct(c.Request.Context(), productID, req.input())
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "更新成功", product)
}

// DeleteProduct 删除商品（管理员）
// @Summary      删除商品
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "商品ID"
// @Success      200  {object}  httpx.SuccessResponse
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.shopService.DeleteProduct(c.Request.Context(), productID); err != nil {
		handler.AbortWithError(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "删除成功", nil)
}
