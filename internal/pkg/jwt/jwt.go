package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validate 的三种失败类型互不合并，调用方据此决定提示重新登录还是直接拒绝
var (
	ErrMalformedToken = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrExpiredToken   = errors.New("token expired")
)

// Claims JWT Claims结构
type Claims struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// JWT 签发与校验 HS256 token。secret 在启动后只读，可被并发使用。
type JWT struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewJWT 创建JWT工具实例
func NewJWT(secret string, expiration time.Duration) *JWT {
	return &JWT{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// WithClock 替换时间来源（测试用）
func (j *JWT) WithClock(now func() time.Time) *JWT {
	j.now = now
	return j
}

// GenerateToken 生成Access Token
func (j *JWT) GenerateToken(userID int64, username string, authorities []string) (string, error) {
	now := j.now()
	claims := &Claims{
		UserID:      userID,
		Username:    username,
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// GetExpiration 获取过期时间（用于Service层）
func (j *JWT) GetExpiration() time.Duration {
	return j.expiration
}

// ValidateToken 验证Token并返回Claims
// 校验顺序：解析 -> 签名 -> 过期时间。
// 既格式错误又已过期的 token 报 ErrMalformedToken；签名被篡改的过期 token 报 ErrBadSignature。
// 各段按严格 base64url 解码，签名段只有一种合法写法。
func (j *JWT) ValidateToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})

	if err != nil {
		// jwt/v5 使用 errors.Is 来检查错误类型
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			// header 与 claims 均可解析时，格式错误只可能来自签名段
			if _, _, perr := parser.ParseUnverified(tokenString, &Claims{}); perr == nil {
				return nil, ErrBadSignature
			}
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrMalformedToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
