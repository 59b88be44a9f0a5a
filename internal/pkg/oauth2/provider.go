package oauth2

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/coreos/go-oidc/v3/oidc"
	goauth2 "golang.org/x/oauth2"

	"shopfront/internal/config"
)

var (
	// ErrUnknownProvider 未配置的 provider
	ErrUnknownProvider = errors.New("unknown oauth2 provider")
	// ErrNoIDToken token 响应中缺少 id_token
	ErrNoIDToken = errors.New("oauth2 token response has no id_token")
	// ErrNoIdentity ID Token 中既没有用户名也没有可信邮箱
	ErrNoIdentity = errors.New("id token carries neither username nor verified email")
)

// Identity 第三方身份，交给认证服务解析为本地账号
type Identity struct {
	Provider string
	Subject  string
	Username string
	Email    string
}

// IdentityProvider 能把授权码换成已校验身份的第三方提供方
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Provider 单个 OIDC 提供方
type Provider struct {
	name     string
	config   goauth2.Config
	verifier *oidc.IDTokenVerifier
}

// Registry 按名称索引的 provider 集合，启动后只读
type Registry struct {
	providers map[string]IdentityProvider
}

// NewRegistry 通过 OIDC discovery 初始化所有 provider
func NewRegistry(ctx context.Context, cfgs []config.OAuth2Provider) (*Registry, error) {
	r := &Registry{providers: make(map[string]IdentityProvider, len(cfgs))}
	for _, c := range cfgs {
		discovered, err := oidc.NewProvider(ctx, c.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("oidc provider discovery for %s: %w", c.Name, err)
		}

		scopes := c.Scopes
		if len(scopes) == 0 {
			scopes = []string{"profile", "email"}
		}
		oauthCfg := goauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     discovered.Endpoint(),
			Scopes:       append([]string{oidc.ScopeOpenID}, scopes...),
		}
		verifier := discovered.Verifier(&oidc.Config{ClientID: c.ClientID})
		r.Register(newProvider(c.Name, oauthCfg, verifier))
	}
	return r, nil
}

func newProvider(name string, cfg goauth2.Config, verifier *oidc.IDTokenVerifier) *Provider {
	return &Provider{name: name, config: cfg, verifier: verifier}
}

// Register 按 Name() 登记 provider，同名覆盖。只在开始服务前调用。
func (r *Registry) Register(p IdentityProvider) {
	r.providers[p.Name()] = p
}

// Get 按名称获取 provider
func (r *Registry) Get(name string) (IdentityProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names 已配置的 provider 名称（排序）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name provider 名称，也是本地账号的 provider 字段
func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL 生成跳转到提供方授权页的地址
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange 用授权码换取 token，校验 ID Token 并提取身份
func (p *Provider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	var claims idClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse id token claims: %w", err)
	}
	claims.Subject = idToken.Subject

	return identityFromClaims(p.name, claims)
}

type idClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	EmailVerified     *bool  `json:"email_verified"`
	PreferredUsername string `json:"preferred_username"`
	Login             string `json:"login"`
	Nickname          string `json:"nickname"`
}

// identityFromClaims 用户名取 preferred_username / login / nickname 中第一个非空值；
// 明确标记为未验证的邮箱不参与账号匹配
func identityFromClaims(provider string, c idClaims) (*Identity, error) {
	id := &Identity{Provider: provider, Subject: c.Subject}

	for _, candidate := range []string{c.PreferredUsername, c.Login, c.Nickname} {
		if candidate != "" {
			id.Username = candidate
			break
		}
	}
	if c.EmailVerified == nil || *c.EmailVerified {
		id.Email = c.Email
	}

	if id.Username == "" && id.Email == "" {
		return nil, ErrNoIdentity
	}
	return id, nil
}
