package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword 空密码不允许被加密存储
var ErrEmptyPassword = errors.New("password must not be empty")

// dummyHash 用于用户不存在或没有本地密码时的比较，
// 保证失败路径与密码错误路径耗时一致，避免通过响应时间枚举用户名
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("shopfront-dummy-password"), bcrypt.DefaultCost)

// Hash 加密密码，cost<=0 时使用 bcrypt.DefaultCost
func Hash(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 验证密码（bcrypt 内部使用常量时间比较）
// hash 为空时仍执行一次比较再返回 false
func Verify(password, hash string) bool {
	if hash == "" {
		VerifyDummy(password)
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyDummy 针对不存在的账号执行一次等价耗时的比较，结果始终丢弃
func VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
