package service

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/model/auth"
	"shopfront/internal/pkg/ctxutil"
	authRepo "shopfront/internal/repository/auth"
)

// UserFinder 按ID查询用户
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*auth.User, error)
}

// CurrentUserResolver 从请求 context 中解析当前 Principal。
// Principal 由认证中间件在 token 校验后写入 context，这里不做任何 token 处理。
type CurrentUserResolver struct {
	users UserFinder
}

// NewCurrentUserResolver 创建当前用户解析器
func NewCurrentUserResolver(users UserFinder) *CurrentUserResolver {
	return &CurrentUserResolver{users: users}
}

// CurrentPrincipal 返回当前 Principal；未认证时 panic（调用方未经认证中间件属于程序错误）
func (r *CurrentUserResolver) CurrentPrincipal(ctx context.Context) *auth.Principal {
	return ctxutil.MustPrincipal(ctx)
}

// CurrentPrincipalID 返回当前 Principal 的用户ID；未认证时 panic
func (r *CurrentUserResolver) CurrentPrincipalID(ctx context.Context) int64 {
	return ctxutil.MustPrincipal(ctx).ID
}

// CurrentUser 重新读取当前用户的完整记录。
// token 签发后账号被删除时返回 ErrNotFound。
func (r *CurrentUserResolver) CurrentUser(ctx context.Context) (*auth.User, error) {
	uid := r.CurrentPrincipalID(ctx)

	user, err := r.users.FindByID(ctx, uid)
	if errors.Is(err, authRepo.ErrUserNotFound) {
		return nil, fmt.Errorf("user %d: %w", uid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find current user: %w", err)
	}
	return user, nil
}
