package auth

import "strings"

// RoleName 角色标识，同时也是授予 Principal 的 authority 字符串
type RoleName string

const (
	RoleUser      RoleName = "ROLE_USER"
	RoleAdmin     RoleName = "ROLE_ADMIN"
	RoleModerator RoleName = "ROLE_MODERATOR"
)

// AllRoles 系统内置的全部角色，启动时写入 roles 集合
var AllRoles = []RoleName{RoleUser, RoleAdmin, RoleModerator}

// IsValid 检查角色是否有效
func (r RoleName) IsValid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleModerator
}

// String 返回角色字符串
func (r RoleName) String() string {
	return string(r)
}

// Role 角色实体，只读，由多个用户共享
type Role struct {
	Name RoleName `bson:"_id" json:"name"`
}

// requestedRoles 注册请求中的角色名到角色的映射表（大小写不敏感）
var requestedRoles = map[string]RoleName{
	"admin":     RoleAdmin,
	"moderator": RoleModerator,
	"user":      RoleUser,
}

// ParseRequestedRoles 将注册请求中的角色名映射为角色
// 不在映射表中的名字被静默忽略（包括 "ROLE_USER" 这类全名），结果去重并保持请求顺序
func ParseRequestedRoles(names []string) []RoleName {
	roles := make([]RoleName, 0, len(names))
	seen := make(map[RoleName]bool, len(names))
	for _, name := range names {
		role, ok := requestedRoles[strings.ToLower(strings.TrimSpace(name))]
		if !ok || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}
	return roles
}
