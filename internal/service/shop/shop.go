package shop

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/model/auth"
	"shopfront/internal/model/shop"
	"shopfront/internal/repository"
	"shopfront/internal/service"
)

var (
	// ErrForbidden 当前用户无权操作该记录
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyCart 购物车为空时无法下单
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOutOfStock 商品库存不足
	ErrOutOfStock = errors.New("product out of stock")
	// ErrInvalidStatus 订单状态不允许该操作
	ErrInvalidStatus = errors.New("invalid order status transition")
)

// maxCartItems 单个购物车最多条目数
const maxCartItems = 100

// PrincipalResolver 读取请求 context 中的当前 Principal
type PrincipalResolver interface {
	CurrentPrincipal(ctx context.Context) *auth.Principal
}

// Stores 商城模块使用的通用仓库
type Stores struct {
	Products  repository.Store[shop.Product]
	CartItems repository.Store[shop.CartItem]
	Orders    repository.Store[shop.Order]
	Posts     repository.Store[shop.Post]
	Comments  repository.Store[shop.Comment]
}

// ListParams 列表查询参数
type ListParams struct {
	Keyword  string
	Category string
	Page     int
	PageSize int
}

// ProductInput 商品创建/更新参数
type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       int64
	Stock       int
	OnSale      bool
}

// ShopService 商城服务接口
// 所有"我的数据"操作都通过 context 中的 Principal 确定归属
type ShopService interface {
	// ListProducts 分页查询商品
	ListProducts(ctx context.Context, params ListParams) ([]*shop.Product, int64, error)
	// GetProduct 获取商品
	GetProduct(ctx context.Context, id int64) (*shop.Product, error)
	// CreateProduct 创建商品（管理员）
	CreateProduct(ctx context.Context, in ProductInput) (*shop.Product, error)
	// UpdateProduct 更新商品（管理员）
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (*shop.Product, error)
	// DeleteProduct 删除商品（管理员）
	DeleteProduct(ctx context.Context, id int64) error

	// ListCartItems 当前用户的购物车
	ListCartItems(ctx context.Context) ([]*shop.CartItem, error)
	// AddCartItem 加入购物车，同一商品累加数量
	AddCartItem(ctx context.Context, productID int64, quantity int) (*shop.CartItem, error)
	// UpdateCartItem 修改购物车条目数量
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*shop.CartItem, error)
	// RemoveCartItem 删除购物车条目
	RemoveCartItem(ctx context.Context, itemID int64) error

	// CreateOrderFromCart 以当前购物车下单并清空购物车
	CreateOrderFromCart(ctx context.Context) (*shop.Order, error)
	// ListOrders 当前用户的订单
	ListOrders(ctx context.Context, page, pageSize int) ([]*shop.Order, int64, error)
	// GetOrder 获取订单（本人或管理员）
	GetOrder(ctx context.Context, id int64) (*shop.Order, error)
	// CancelOrder 取消本人待支付订单
	CancelOrder(ctx context.Context, id int64) (*shop.Order, error)
	// UpdateOrderStatus 修改订单状态（管理员）
	UpdateOrderStatus(ctx context.Context, id int64, status shop.OrderStatus) (*shop.Order, error)

	// ListPosts 分页查询帖子
	ListPosts(ctx context.Context, params ListParams) ([]*shop.Post, int64, error)
	// GetPost 获取帖子
	GetPost(ctx context.Context, id int64) (*shop.Post, error)
	// CreatePost 发帖
	CreatePost(ctx context.Context, title, content string) (*shop.Post, error)
	// UpdatePost 修改本人帖子
	UpdatePost(ctx context.Context, id int64, title, content string) (*shop.Post, error)
	// DeletePost 删除帖子（作者、管理员或版主）
	DeletePost(ctx context.Context, id int64) error
	// ListComments 帖子评论
	ListComments(ctx context.Context, postID int64, page, pageSize int) ([]*shop.Comment, int64, error)
	// AddComment 发表评论
	AddComment(ctx context.Context, postID int64, content string) (*shop.Comment, error)
	// DeleteComment 删除评论（作者、管理员或版主）
	DeleteComment(ctx context.Context, id int64) error
}

// shopService 商城服务实现
type shopService struct {
	stores     Stores
	principals PrincipalResolver
}

// NewShopService 创建商城服务
func NewShopService(stores Stores, principals PrincipalResolver) ShopService {
	return &shopService{
		stores:     stores,
		principals: principals,
	}
}

// notFound 将仓库层 ErrNotFound 转换为认证核心的 NOT_FOUND
func notFound(kind string, id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, service.ErrNotFound)
	}
	return err
}

// canModerate 作者本人、管理员或版主
func canModerate(p *auth.Principal, authorID int64) bool {
	return p.ID == authorID || p.HasAnyRole(auth.RoleAdmin, auth.RoleModerator)
}
