package auth

import (
	"errors"
	"slices"
)

// ErrNilUser 构造 Principal 时传入了空用户
var ErrNilUser = errors.New("principal: user is nil")

// Principal 已认证身份及其权限，每次认证时由 User 重新构建，不持久化。
// 构建后不可变：Authorities 只通过拷贝对外暴露。
type Principal struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	Phone        string
	Active       bool
	authorities  []string
}

// NewPrincipal 从用户记录构建 Principal，authority 集合与用户角色一一对应。
// 角色为空时 authority 为空（下游授权全部拒绝），不视为错误。
func NewPrincipal(user *User) (*Principal, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	authorities := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		if !slices.Contains(authorities, string(r)) {
			authorities = append(authorities, string(r))
		}
	}
	return &Principal{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.Password,
		Email:        user.Email,
		Phone:        user.Phone,
		Active:       user.Active,
		authorities:  authorities,
	}, nil
}

// PrincipalFromToken 由已验证的 token claims 还原 Principal，不访问密码存储。
// 签发 token 时账号必然是激活状态，因此 Active 恒为 true。
func PrincipalFromToken(userID int64, username string, authorities []string) *Principal {
	return &Principal{
		ID:          userID,
		Username:    username,
		Active:      true,
		authorities: slices.Clone(authorities),
	}
}

// Authorities 返回 authority 列表的拷贝
func (p *Principal) Authorities() []string {
	return slices.Clone(p.authorities)
}

// HasAuthority 是否拥有指定 authority
func (p *Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.authorities, authority)
}

// HasAnyRole 是否拥有任一角色
func (p *Principal) HasAnyRole(roles ...RoleName) bool {
	for _, r := range roles {
		if p.HasAuthority(string(r)) {
			return true
		}
	}
	return false
}
