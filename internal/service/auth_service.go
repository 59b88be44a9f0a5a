package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"shopfront/internal/model/auth"
	"shopfront/internal/pkg/id"
	"shopfront/internal/pkg/jwt"
	"shopfront/internal/pkg/password"
	authRepo "shopfront/internal/repository/auth"
)

// UserStore 认证核心依赖的用户存储
type UserStore interface {
	UserFinder
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	FindByUsernameAndProviderAndEmail(ctx context.Context, username, provider, email string) (*auth.User, error)
	FindByUsernameAndProvider(ctx context.Context, username, provider string) (*auth.User, error)
	FindByEmailAndProvider(ctx context.Context, email, provider string) (*auth.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Search(ctx context.Context, keyword string) ([]*auth.User, error)
	Create(ctx context.Context, user *auth.User) error
	Update(ctx context.Context, user *auth.User) error
	Delete(ctx context.Context, id int64) error
}

// RoleStore 角色存储（只读）
type RoleStore interface {
	FindByName(ctx context.Context, name auth.RoleName) (*auth.Role, error)
}

// AuthService 认证服务：本地密码登录、OAuth2 账号解析、注册与 token 签发/校验
type AuthService struct {
	users      UserStore
	roles      RoleStore
	jwt        *jwt.JWT
	bcryptCost int
	resolver   *CurrentUserResolver
}

// NewAuthService 创建认证服务
func NewAuthService(users UserStore, roles RoleStore, tokens *jwt.JWT, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		roles:      roles,
		jwt:        tokens,
		bcryptCost: bcryptCost,
		resolver:   NewCurrentUserResolver(users),
	}
}

// Resolver 返回当前用户解析器
func (s *AuthService) Resolver() *CurrentUserResolver {
	return s.resolver
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
	Roles    []string // admin / moderator / user，大小写不敏感，其他值忽略
}

// Register 注册本地账号
// 用户名与邮箱在任何写入之前都完成检查；并发注册的竞争由存储层唯一约束兜底。
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*auth.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	exists, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	exists, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	roles, err := s.resolveRoles(ctx, in.Roles)
	if err != nil {
		return nil, err
	}

	hashed, err := password.Hash(in.Password, s.bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &auth.User{
		ID:       id.Next(),
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		Phone:    in.Phone,
		Active:   true,
		Provider: auth.ProviderLocal,
		Roles:    roles,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapStoreError(err)
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// resolveRoles 将请求的角色名映射为 roles 集合中的角色；未请求或全部无法识别时默认 ROLE_USER
func (s *AuthService) resolveRoles(ctx context.Context, requested []string) ([]auth.RoleName, error) {
	names := auth.ParseRequestedRoles(requested)
	if len(names) == 0 {
		names = []auth.RoleName{auth.RoleUser}
	}

	roles := make([]auth.RoleName, 0, len(names))
	for _, name := range names {
		role, err := s.roles.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve role %s: %w", name, err)
		}
		roles = append(roles, role.Name)
	}
	return roles, nil
}

// AuthenticateLocal 校验本地用户名/密码并构建 Principal
// 用户不存在与密码错误统一返回 ErrBadCredentials，避免用户名枚举。
func (s *AuthService) AuthenticateLocal(ctx context.Context, username, pwd string) (*auth.Principal, error) {
	user, err := s.users.FindByUsernameAndProvider(ctx, username, auth.ProviderLocal)
	if errors.Is(err, authRepo.ErrUserNotFound) {
		password.VerifyDummy(pwd)
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !password.Verify(pwd, user.Password) {
		return nil, ErrBadCredentials
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}

	return auth.NewPrincipal(user)
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
	Principal   *auth.Principal
}

// Login 本地账号登录并签发 Access Token
func (s *AuthService) Login(ctx context.Context, username, pwd string) (*LoginResult, error) {
	principal, err := s.AuthenticateLocal(ctx, username, pwd)
	if err != nil {
		return nil, err
	}
	return s.issue(principal)
}

// ResolveOAuth2Account 将第三方身份解析为本地账号，首次出现时创建。
// 查找顺序固定：(username, provider, email) -> (username, provider) -> (email, provider)，
// 第一个命中即为结果。同一三元组重复回调总是得到同一个账号。
func (s *AuthService) ResolveOAuth2Account(ctx context.Context, provider, username, email string) (*auth.User, error) {
	provider = strings.TrimSpace(provider)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if provider == "" || provider == auth.ProviderLocal || (username == "" && email == "") {
		return nil, ErrInvalidInput
	}

	user, err := s.findOAuth2Account(ctx, provider, username, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, authRepo.ErrUserNotFound) {
		return nil, err
	}

	accountName := username
	if accountName == "" {
		accountName = email
	}
	user = &auth.User{
		ID:       id.Next(),
		Username: accountName,
		Email:    email,
		Active:   true,
		Provider: provider,
		Roles:    []auth.RoleName{auth.RoleUser},
	}

	err = s.users.Create(ctx, user)
	if err == nil {
		log.Info().Int64("user_id", user.ID).Str("provider", provider).Msg("oauth2 account created")
		return user, nil
	}
	if !errors.Is(err, authRepo.ErrDuplicateUsername) && !errors.Is(err, authRepo.ErrDuplicateEmail) {
		return nil, fmt.Errorf("create oauth2 account: %w", err)
	}

	// 并发回调可能已创建了同一账号，按调用方原始输入重新查找；
	// 派生出的用户名只用于建号，不参与匹配
	user, err = s.findOAuth2Account(ctx, provider, username, email)
	if errors.Is(err, authRepo.ErrUserNotFound) {
		return nil, ErrOAuth2Conflict
	}
	return user, err
}

func (s *AuthService) findOAuth2Account(ctx context.Context, provider, username, email string) (*auth.User, error) {
	lookups := make([]func() (*auth.User, error), 0, 3)
	if username != "" && email != "" {
		lookups = append(lookups, func() (*auth.User, error) {
			return s.users.FindByUsernameAndProviderAndEmail(ctx, username, provider, email)
		})
	}
	if username != "" {
		lookups = append(lookups, func() (*auth.User, error) {
			return s.users.FindByUsernameAndProvider(ctx, username, provider)
		})
	}
	if email != "" {
		lookups = append(lookups, func() (*auth.User, error) {
			return s.users.FindByEmailAndProvider(ctx, email, provider)
		})
	}

	for _, lookup := range lookups {
		user, err := lookup()
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, authRepo.ErrUserNotFound) {
			return nil, fmt.Errorf("find oauth2 account: %w", err)
		}
	}
	return nil, authRepo.ErrUserNotFound
}

// LoginOAuth2 解析第三方身份并签发 Access Token
func (s *AuthService) LoginOAuth2(ctx context.Context, provider, username, email string) (*LoginResult, error) {
	user, err := s.ResolveOAuth2Account(ctx, provider, username, email)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	principal, err := auth.NewPrincipal(user)
	if err != nil {
		return nil, err
	}
	return s.issue(principal)
}

func (s *AuthService) issue(principal *auth.Principal) (*LoginResult, error) {
	token, err := s.jwt.GenerateToken(principal.ID, principal.Username, principal.Authorities())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int(s.jwt.GetExpiration() / time.Second),
		TokenType:   "Bearer",
		Principal:   principal,
	}, nil
}

// ValidateToken 校验 Access Token 并还原 Principal（不访问用户存储）
func (s *AuthService) ValidateToken(tokenString string) (*auth.Principal, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return auth.PrincipalFromToken(claims.UserID, claims.Username, claims.Authorities), nil
}

// UpdateProfileInput 当前用户资料更新参数，空字段表示不修改
type UpdateProfileInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// UpdateProfile 更新当前用户资料
func (s *AuthService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*auth.User, error) {
	user, err := s.resolver.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	// 第三方账号的用户名与邮箱是回调匹配的依据，改动后下次登录会另建账号
	if !user.IsLocal() && ((in.Username != "" && in.Username != user.Username) || (in.Email != "" && in.Email != user.Email)) {
		return nil, fmt.Errorf("%w: username and email of %s account are managed by the provider", ErrInvalidInput, user.Provider)
	}

	if in.Username != "" && in.Username != user.Username {
		exists, err := s.users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if exists {
			return nil, ErrUsernameTaken
		}
		user.Username = in.Username
	}

	if in.Email != "" && in.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = in.Email
	}

	if in.Phone != "" {
		user.Phone = in.Phone
	}

	if in.Password != "" {
		if !user.IsLocal() {
			return nil, fmt.Errorf("%w: password cannot be set on %s account", ErrInvalidInput, user.Provider)
		}
		hashed, err := password.Hash(in.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapStoreError(err)
	}
	return user, nil
}

// SearchUsers 按关键字查询用户，没有匹配时返回 ErrNotFound
func (s *AuthService) SearchUsers(ctx context.Context, keyword string) ([]*auth.User, error) {
	users, err := s.users.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no user matches %q: %w", keyword, ErrNotFound)
	}
	return users, nil
}

// DeleteUser 删除用户。已签发给该用户的 token 在过期前仍可通过校验，
// 但 CurrentUser 会返回 ErrNotFound。
func (s *AuthService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return mapStoreError(err)
	}
	log.Info().Int64("user_id", userID).Msg("user deleted")
	return nil
}

// mapStoreError 将仓库错误转换为认证错误分类
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, authRepo.ErrDuplicateUsername):
		return ErrUsernameTaken
	case errors.Is(err, authRepo.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, authRepo.ErrUserNotFound):
		return ErrNotFound
	default:
		return err
	}
}
