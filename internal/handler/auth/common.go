package auth

import (
	"time"

	"shopfront/internal/model/auth"
	"shopfront/internal/service"
)

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID        int64    `json:"id"`                   // 用户ID
	Username  string   `json:"username"`             // 用户名
	Email     string   `json:"email,omitempty"`      // 邮箱
	Phone     string   `json:"phone,omitempty"`      // 手机号
	Provider  string   `json:"provider,omitempty"`   // local 或第三方 provider
	Active    bool     `json:"active"`               // 是否启用
	Roles     []string `json:"roles"`                // 角色列表
	CreatedAt string   `json:"created_at,omitempty"` // 创建时间
}

// LoginResponseData 登录响应数据
type LoginResponseData struct {
	AccessToken string   `json:"access_token"` // Access Token
	ExpiresIn   int      `json:"expires_in"`   // 过期时间（秒）
	TokenType   string   `json:"token_type"`   // Token类型：Bearer
	User        UserInfo `json:"user"`         // 用户信息
}

// toUserInfo 将User实体转换为UserInfo
func toUserInfo(user *auth.User) UserInfo {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}
	info := UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Provider: user.Provider,
		Active:   user.Active,
		Roles:    roles,
	}
	if !user.CreatedAt.IsZero() {
		info.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return info
}

func toLoginResponse(result *service.LoginResult) LoginResponseData {
	p := result.Principal
	return LoginResponseData{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		TokenType:   result.TokenType,
		User: UserInfo{
			ID:       p.ID,
			Username: p.Username,
			Email:    p.Email,
			Phone:    p.Phone,
			Active:   p.Active,
			Roles:    p.Authorities(),
		},
	}
}
