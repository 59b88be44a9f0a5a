package auth

import (
	"context"
	"time"

	"shopfront/internal/pkg/oauth2"
	"shopfront/internal/service"
)

// StateStore OAuth2 state 的一次性存储（Redis 或进程内缓存）
type StateStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Take(ctx context.Context, key string, dest any) error
}

// ProviderSource 按名称查找第三方登录提供方
type ProviderSource interface {
	Get(name string) (oauth2.IdentityProvider, error)
}

// Handler 认证处理器
// 所有auth相关的Handler方法都通过这个结构体访问Service
type Handler struct {
	authService *service.AuthService
	providers   ProviderSource
	states      StateStore
	// allowRoleRequest 为 false 时公开注册忽略请求中的 roles
	allowRoleRequest bool
}

// NewHandler 创建认证处理器
func NewHandler(authService *service.AuthService, providers ProviderSource, states StateStore, allowRoleRequest bool) *Handler {
	return &Handler{
		authService:      authService,
		providers:        providers,
		states:           states,
		allowRoleRequest: allowRoleRequest,
	}
}
