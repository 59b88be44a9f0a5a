package auth

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"shopfront/internal/model/auth"
)

// MemoryUserRepo 进程内用户仓库，未配置 MongoDB 时使用，也用于测试。
// 唯一约束在同一把锁内检查并写入，与 MongoDB 唯一索引语义一致。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[int64]*auth.User
}

// NewMemoryUserRepo 创建进程内用户仓库
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[int64]*auth.User)}
}

// Create 创建用户
func (r *MemoryUserRepo) Create(ctx context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicateUsername
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)
	return nil
}

// FindByID 根据ID查询用户
func (r *MemoryUserRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

// FindByUsername 根据用户名查询用户（跨 provider，取ID最小的一条）
func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.first(func(u *auth.User) bool { return u.Username == username })
}

// FindByUsernameAndProviderAndEmail 三元组精确匹配
func (r *MemoryUserRepo) FindByUsernameAndProviderAndEmail(ctx context.Context, username, provider, email string) (*auth.User, error) {
	return r.first(func(u *auth.User) bool {
		return u.Username == username && u.Provider == provider && u.Email == email
	})
}

// FindByUsernameAndProvider 根据用户名和 provider 查询
func (r *MemoryUserRepo) FindByUsernameAndProvider(ctx context.Context, username, provider string) (*auth.User, error) {
	return r.first(func(u *auth.User) bool { return u.Username == username && u.Provider == provider })
}

// FindByEmailAndProvider 根据邮箱和 provider 查询
func (r *MemoryUserRepo) FindByEmailAndProvider(ctx context.Context, email, provider string) (*auth.User, error) {
	return r.first(func(u *auth.User) bool { return u.Email == email && u.Provider == provider })
}

// ExistsByUsername 用户名是否已存在
func (r *MemoryUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

// ExistsByEmail 邮箱是否已存在
func (r *MemoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.first(func(u *auth.User) bool { return u.Email == email })
	return err == nil, nil
}

// Search 按关键字查询用户
func (r *MemoryUserRepo) Search(ctx context.Context, keyword string) ([]*auth.User, error) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	return r.filter(func(u *auth.User) bool {
		return strings.Contains(strings.ToLower(u.Username), k) ||
			strings.Contains(strings.ToLower(u.Email), k)
	}), nil
}

// Update 整体替换用户
func (r *MemoryUserRepo) Update(ctx context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	user.CreatedAt = old.CreatedAt
	user.UpdatedAt = time.Now()
	r.users[user.ID] = cloneUser(user)
	return nil
}

// Delete 删除用户
func (r *MemoryUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// checkUnique 调用方需持有写锁；忽略与自身ID相同的记录
func (r *MemoryUserRepo) checkUnique(user *auth.User) error {
	for _, u := range r.users {
		if u.ID == user.ID || u.Provider != user.Provider {
			continue
		}
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
		if user.Email != "" && u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	return nil
}

func (r *MemoryUserRepo) first(match func(u *auth.User) bool) (*auth.User, error) {
	users := r.filter(match)
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

// filter 返回按ID升序排列的匹配用户拷贝
func (r *MemoryUserRepo) filter(match func(u *auth.User) bool) []*auth.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*auth.User, 0)
	for _, u := range r.users {
		if match(u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneUser(u *auth.User) *auth.User {
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c
}

// MemoryRoleRepo 进程内角色仓库
type MemoryRoleRepo struct {
	mu    sync.RWMutex
	roles map[auth.RoleName]bool
}

// NewMemoryRoleRepo 创建进程内角色仓库（未写入任何角色）
func NewMemoryRoleRepo() *MemoryRoleRepo {
	return &MemoryRoleRepo{roles: make(map[auth.RoleName]bool)}
}

// EnsureDefaults 写入内置角色
func (r *MemoryRoleRepo) EnsureDefaults(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range auth.AllRoles {
		r.roles[name] = true
	}
	return nil
}

// FindByName 根据角色名查询
func (r *MemoryRoleRepo) FindByName(ctx context.Context, name auth.RoleName) (*auth.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.roles[name] {
		return nil, ErrRoleNotFound
	}
	return &auth.Role{Name: name}, nil
}
