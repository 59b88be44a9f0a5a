package auth

import (
	"time"
)

// ProviderLocal 本地用户名/密码账号的 provider 标识
const ProviderLocal = "local"

// User 用户实体（身份根）
// (username, provider) 与 (email, provider) 在各自 provider 命名空间内唯一
type User struct {
	ID        int64      `bson:"_id" json:"id"`                          // snowflake 数值ID，分配后不可变
	Username  string     `bson:"username" json:"username"`               // 用户名
	Email     string     `bson:"email,omitempty" json:"email,omitempty"` // 邮箱
	Password  string     `bson:"password,omitempty" json:"-"`            // bcrypt hash；OAuth2 账号为空
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Active    bool       `bson:"active" json:"active"`
	Provider  string     `bson:"provider" json:"provider"` // local 或 OAuth2 provider 名称
	Roles     []RoleName `bson:"roles" json:"roles"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// HasRole 检查用户是否拥有指定角色
func (u *User) HasRole(role RoleName) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsLocal 是否为本地密码账号
func (u *User) IsLocal() bool {
	return u.Provider == ProviderLocal
}
