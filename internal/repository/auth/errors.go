package auth

import "errors"

// 用户存储的公共错误
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername (username, provider) 唯一约束冲突
	ErrDuplicateUsername = errors.New("username already exists for provider")

	// ErrDuplicateEmail (email, provider) 唯一约束冲突
	ErrDuplicateEmail = errors.New("email already exists for provider")

	// ErrRoleNotFound 角色不存在（roles 集合未初始化）
	ErrRoleNotFound = errors.New("role not found")
)
