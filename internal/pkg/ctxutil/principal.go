package ctxutil

import (
	"context"

	"shopfront/internal/model/auth"
)

// principalKeyType 使用私有类型避免与其他 context key 冲突
type principalKeyType struct{}

var principalKey = principalKeyType{}

// WithPrincipal 将已认证的 Principal 注入到 context 中
// 说明：由认证中间件在 token 校验成功后调用，例如：
//
//	ctx := ctxutil.WithPrincipal(c.Request.Context(), principal)
//	c.Request = c.Request.WithContext(ctx)
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal 从 context 中解析 Principal
// 返回值：
//   - *auth.Principal: 解析到的 Principal
//   - bool          : 是否存在有效的 Principal
func GetPrincipal(ctx context.Context) (*auth.Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(principalKey).(*auth.Principal)
	if !ok || p == nil || p.ID == 0 {
		return nil, false
	}
	return p, true
}

// MustPrincipal 同 GetPrincipal，但在未认证的 context 中调用会 panic。
// 只应在认证中间件保护的路由之后使用，缺失 Principal 属于程序错误。
func MustPrincipal(ctx context.Context) *auth.Principal {
	p, ok := GetPrincipal(ctx)
	if !ok {
		panic("ctxutil: no authenticated principal in context")
	}
	return p
}

// GetUserID 从 context 中解析当前用户ID
func GetUserID(ctx context.Context) (int64, bool) {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return 0, false
	}
	return p.ID, true
}
