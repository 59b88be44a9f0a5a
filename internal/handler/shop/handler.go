package shop

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	shopService "shopfront/internal/service/shop"
)

// Handler 商城处理器：商品、购物车、订单、帖子与评论
type Handler struct {
	shopService shopService.ShopService
}

// NewHandler 创建商城处理器
func NewHandler(shopService shopService.ShopService) *Handler {
	return &Handler{shopService: shopService}
}

// PageQuery 分页与过滤参数
type PageQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"q"`
	Category string `form:"category"`
}

func (q PageQuery) params() shopService.ListParams {
	return shopService.ListParams{
		Keyword:  q.Keyword,
		Category: q.Category,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// pageOf 回显实际使用的分页参数
func pageOf(q PageQuery) (int, int) {
	page, size := q.Page, q.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return page, size
}

// pathID 解析路径中的数值ID，失败时已写入 400 响应
func pathID(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		handler.AbortInvalidRequest(c, fmt.Errorf("invalid %s: %q", name, c.Param(name)))
		return 0, false
	}
	return v, true
}
