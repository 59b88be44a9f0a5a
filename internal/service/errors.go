package service

import (
	"errors"

	"shopfront/internal/pkg/jwt"
)

// 认证核心的错误分类，传输层按类型映射为 401/403/404/409
var (
	ErrBadCredentials  = errors.New("bad credentials")
	ErrAccountDisabled = errors.New("account disabled")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrEmailTaken      = errors.New("email is already in use")
	ErrNotFound        = errors.New("not found")

	ErrTokenExpired      = jwt.ErrExpiredToken
	ErrTokenMalformed    = jwt.ErrMalformedToken
	ErrTokenBadSignature = jwt.ErrBadSignature

	// ErrInvalidInput 请求参数不合法
	ErrInvalidInput = errors.New("invalid input")
	// ErrOAuth2Conflict 第三方身份无法与任何账号唯一对应（用户名被同 provider 下的其他账号占用）
	ErrOAuth2Conflict = errors.New("oauth2 identity conflicts with an existing account")
)
