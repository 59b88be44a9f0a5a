package jwt

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"
)

const testSecret = "test-secret-key"

// flipSignature 修改签名段中间的一个字符（仍为合法 base64url 字符）
func flipSignature(token string) string {
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	i := len(sig) / 2
	if sig[i] == 'A' {
		sig[i] = 'B'
	} else {
		sig[i] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipSignatureTail 改动签名段最后一个字符的最低位。
// 32 字节签名编码为 43 个字符，末字符的低位不携带数据，宽松解码下结果不变。
func flipSignatureTail(token string) string {
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	last := len(sig) - 1
	sig[last] = base64URLAlphabet[strings.IndexByte(base64URLAlphabet, sig[last])^1]
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

func TestJWT_RoundTrip(t *testing.T) {
	Convey("签发后立即校验，claims 与原 principal 一致", t, func() {
		j := NewJWT(testSecret, time.Hour)
		token, err := j.GenerateToken(1001, "alice", []string{"ROLE_USER", "ROLE_ADMIN"})
		So(err, ShouldBeNil)
		So(strings.Count(token, "."), ShouldEqual, 2)

		claims, err := j.ValidateToken(token)
		So(err, ShouldBeNil)
		So(claims.UserID, ShouldEqual, 1001)
		So(claims.Username, ShouldEqual, "alice")
		So(claims.Authorities, ShouldResemble, []string{"ROLE_USER", "ROLE_ADMIN"})
		So(claims.Subject, ShouldEqual, "1001")
		So(claims.ExpiresAt.Sub(claims.IssuedAt.Time), ShouldEqual, time.Hour)
	})
}

func TestJWT_Expired(t *testing.T) {
	Convey("超过 TTL 后校验返回 ErrExpiredToken", t, func() {
		issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		clock := issuedAt
		j := NewJWT(testSecret, 15*time.Minute).WithClock(func() time.Time { return clock })

		token, err := j.GenerateToken(7, "bob", nil)
		So(err, ShouldBeNil)

		Convey("TTL 内有效", func() {
			clock = issuedAt.Add(14 * time.Minute)
			_, err := j.ValidateToken(token)
			So(err, ShouldBeNil)
		})

		Convey("TTL 之后过期", func() {
			clock = issuedAt.Add(16 * time.Minute)
			_, err := j.ValidateToken(token)
			So(err, ShouldEqual, ErrExpiredToken)
		})

		Convey("过期且签名被篡改时报签名错误而不是过期", func() {
			clock = issuedAt.Add(time.Hour)
			_, err := j.ValidateToken(flipSignature(token))
			So(err, ShouldEqual, ErrBadSignature)
			_, err = j.ValidateToken(flipSignatureTail(token))
			So(err, ShouldEqual, ErrBadSignature)
		})
	})
}

func TestJWT_BadSignature(t *testing.T) {
	Convey("签名校验", t, func() {
		j := NewJWT(testSecret, time.Hour)
		token, err := j.GenerateToken(1, "alice", []string{"ROLE_USER"})
		So(err, ShouldBeNil)

		Convey("翻转签名的一个字节", func() {
			_, err := j.ValidateToken(flipSignature(token))
			So(err, ShouldEqual, ErrBadSignature)
		})

		Convey("只改签名末字符的冗余位", func() {
			tampered := flipSignatureTail(token)
			So(tampered, ShouldNotEqual, token)

			lenient, err := base64.RawURLEncoding.DecodeString(strings.Split(tampered, ".")[2])
			So(err, ShouldBeNil)
			original, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[2])
			So(err, ShouldBeNil)
			So(lenient, ShouldResemble, original)

			claims, err := j.ValidateToken(tampered)
			So(err, ShouldEqual, ErrBadSignature)
			So(claims, ShouldBeNil)
		})

		Convey("签名段不是 base64url", func() {
			parts := strings.Split(token, ".")
			_, err := j.ValidateToken(parts[0] + "." + parts[1] + ".$$$")
			So(err, ShouldEqual, ErrBadSignature)
		})

		Convey("使用其他密钥签发", func() {
			other, err := NewJWT("another-secret", time.Hour).GenerateToken(1, "alice", nil)
			So(err, ShouldBeNil)
			_, err = j.ValidateToken(other)
			So(err, ShouldEqual, ErrBadSignature)
		})

		Convey("非 HS256 算法被拒绝", func() {
			claims := &Claims{
				UserID:   1,
				Username: "alice",
				RegisteredClaims: gojwt.RegisteredClaims{
					ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}
			forged, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
			So(err, ShouldBeNil)
			_, err = j.ValidateToken(forged)
			So(err, ShouldEqual, ErrBadSignature)
		})
	})
}

func TestJWT_Malformed(t *testing.T) {
	Convey("格式错误的 token", t, func() {
		issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := issuedAt
		j := NewJWT(testSecret, time.Minute).WithClock(func() time.Time { return clock })

		for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.###.$$$"} {
			_, err := j.ValidateToken(tok)
			So(err, ShouldEqual, ErrMalformedToken)
		}

		Convey("格式错误优先于过期", func() {
			token, err := j.GenerateToken(1, "alice", nil)
			So(err, ShouldBeNil)
			clock = issuedAt.Add(time.Hour)

			parts := strings.Split(token, ".")
			broken := parts[0] + ".%%%." + parts[2]
			_, err = j.ValidateToken(broken)
			So(err, ShouldEqual, ErrMalformedToken)
		})

		Convey("缺少 user_id 的 token", func() {
			claims := &Claims{
				Username: "ghost",
				RegisteredClaims: gojwt.RegisteredClaims{
					ExpiresAt: gojwt.NewNumericDate(clock.Add(time.Minute)),
				},
			}
			tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			So(err, ShouldBeNil)
			_, err = j.ValidateToken(tok)
			So(err, ShouldEqual, ErrMalformedToken)
		})
	})
}
