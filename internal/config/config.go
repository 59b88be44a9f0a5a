package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string          `mapstructure:"host"`
	Port         int             `mapstructure:"port"`
	Mode         string          `mapstructure:"mode"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	CORSOrigins  []string        `mapstructure:"cors_allowed_origins"` // 为空时允许所有来源
}

// RateLimitConfig 登录/注册接口限流
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret         string           `mapstructure:"jwt_secret"`          // JWT密钥
	AccessTokenExpiry time.Duration    `mapstructure:"access_token_expiry"` // Access Token过期时间
	BcryptCost        int              `mapstructure:"bcrypt_cost"`
	AllowRoleRequest  bool             `mapstructure:"allow_role_request"` // 公开注册是否接受请求中的 roles
	OAuth2            []OAuth2Provider `mapstructure:"oauth2"`
}

// OAuth2Provider 第三方登录 (OIDC) 提供方配置
type OAuth2Provider struct {
	Name         string   `mapstructure:"name"` // 例如 google, github
	IssuerURL    string   `mapstructure:"issuer_url"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// SnowflakeConfig 数值ID生成配置
type SnowflakeConfig struct {
	Node int64 `mapstructure:"node"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Snowflake.Node < 0 || c.Snowflake.Node > 1023 {
		return errors.New("invalid snowflake node, must be 0-1023")
	}

	if c.Server.Mode == "release" && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required in release mode")
	}

	seen := make(map[string]bool, len(c.Auth.OAuth2))
	for _, p := range c.Auth.OAuth2 {
		if p.Name == "" || p.Name == "local" {
			return errors.New("oauth2 provider name must be set and must not be \"local\"")
		}
		if seen[p.Name] {
			return errors.New("duplicate oauth2 provider: " + p.Name)
		}
		seen[p.Name] = true
	}

	return nil
}
