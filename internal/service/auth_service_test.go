package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/model/auth"
	"shopfront/internal/pkg/ctxutil"
	"shopfront/internal/pkg/jwt"
	authRepo "shopfront/internal/repository/auth"
)

func newTestAuthService() (*AuthService, *authRepo.MemoryUserRepo) {
	users := authRepo.NewMemoryUserRepo()
	roles := authRepo.NewMemoryRoleRepo()
	_ = roles.EnsureDefaults(context.Background())
	return NewAuthService(users, roles, jwt.NewJWT("test-secret", time.Hour), bcrypt.MinCost), users
}

func registerAlice(svc *AuthService) *auth.User {
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Password: "pw123",
		Email:    "alice@x.com",
	})
	So(err, ShouldBeNil)
	return user
}

func TestAuthService_Register(t *testing.T) {
	Convey("注册", t, func() {
		ctx := context.Background()
		svc, users := newTestAuthService()

		Convey("未请求角色时默认 ROLE_USER，密码不以明文保存", func() {
			user := registerAlice(svc)
			So(user.ID, ShouldBeGreaterThan, 0)
			So(user.Provider, ShouldEqual, auth.ProviderLocal)
			So(user.Active, ShouldBeTrue)
			So(user.Roles, ShouldResemble, []auth.RoleName{auth.RoleUser})
			So(user.Password, ShouldNotEqual, "pw123")
			So(user.Password, ShouldNotBeEmpty)
		})

		Convey("重复用户名返回 ErrUsernameTaken，不产生第二条记录", func() {
			registerAlice(svc)
			_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "other", Email: "alice2@x.com"})
			So(err, ShouldEqual, ErrUsernameTaken)

			found, err := users.Search(ctx, "alice")
			So(err, ShouldBeNil)
			So(len(found), ShouldEqual, 1)
		})

		Convey("重复邮箱返回 ErrEmailTaken", func() {
			registerAlice(svc)
			_, err := svc.Register(ctx, RegisterInput{Username: "alice2", Password: "pw", Email: "alice@x.com"})
			So(err, ShouldEqual, ErrEmailTaken)

			exists, _ := users.ExistsByUsername(ctx, "alice2")
			So(exists, ShouldBeFalse)
		})

		Convey("角色名大小写不敏感，未知角色被忽略", func() {
			user, err := svc.Register(ctx, RegisterInput{
				Username: "mod",
				Password: "pw",
				Email:    "mod@x.com",
				Roles:    []string{"Moderator", "ADMIN", "superuser", "root"},
			})
			So(err, ShouldBeNil)
			So(user.Roles, ShouldResemble, []auth.RoleName{auth.RoleModerator, auth.RoleAdmin})
		})

		Convey("只请求未知角色时退回 ROLE_USER", func() {
			user, err := svc.Register(ctx, RegisterInput{
				Username: "bob",
				Password: "pw",
				Email:    "bob@x.com",
				Roles:    []string{"ROLE_ADMIN", "owner"},
			})
			So(err, ShouldBeNil)
			So(user.Roles, ShouldResemble, []auth.RoleName{auth.RoleUser})
		})

		Convey("缺少必填字段", func() {
			_, err := svc.Register(ctx, RegisterInput{Username: "x", Email: "x@x.com"})
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		})

		Convey("并发注册同一用户名只有一个成功", func() {
			var wg sync.WaitGroup
			results := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := svc.Register(ctx, RegisterInput{Username: "race", Password: "pw", Email: "race@x.com"})
					results <- err
				}()
			}
			wg.Wait()
			close(results)

			ok := 0
			for err := range results {
				if err == nil {
					ok++
					continue
				}
				So(errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken), ShouldBeTrue)
			}
			So(ok, ShouldEqual, 1)
		})
	})
}

func TestAuthService_AuthenticateLocal(t *testing.T) {
	Convey("本地认证", t, func() {
		ctx := context.Background()
		svc, users := newTestAuthService()
		alice := registerAlice(svc)

		Convey("正确密码返回 Principal", func() {
			p, err := svc.AuthenticateLocal(ctx, "alice", "pw123")
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, alice.ID)
			So(p.Email, ShouldEqual, "alice@x.com")
			So(p.Authorities(), ShouldResemble, []string{"ROLE_USER"})
		})

		Convey("用户不存在与密码错误返回同一种错误", func() {
			_, errWrong := svc.AuthenticateLocal(ctx, "alice", "wrong")
			_, errMissing := svc.AuthenticateLocal(ctx, "nobody", "pw123")
			So(errWrong, ShouldEqual, ErrBadCredentials)
			So(errMissing, ShouldEqual, ErrBadCredentials)
		})

		Convey("账号被禁用", func() {
			alice.Active = false
			So(users.Update(ctx, alice), ShouldBeNil)

			_, err := svc.AuthenticateLocal(ctx, "alice", "pw123")
			So(err, ShouldEqual, ErrAccountDisabled)

			Convey("禁用账号密码错误时仍报 ErrBadCredentials", func() {
				_, err := svc.AuthenticateLocal(ctx, "alice", "wrong")
				So(err, ShouldEqual, ErrBadCredentials)
			})
		})

		Convey("OAuth2 账号不能走密码登录", func() {
			_, err := svc.ResolveOAuth2Account(ctx, "github", "carol", "carol@x.com")
			So(err, ShouldBeNil)
			_, err = svc.AuthenticateLocal(ctx, "carol", "")
			So(err, ShouldEqual, ErrBadCredentials)
		})
	})
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	Convey("登录签发 token 并能校验还原 Principal", t, func() {
		ctx := context.Background()
		svc, _ := newTestAuthService()
		alice := registerAlice(svc)

		result, err := svc.Login(ctx, "alice", "pw123")
		So(err, ShouldBeNil)
		So(result.TokenType, ShouldEqual, "Bearer")
		So(result.ExpiresIn, ShouldEqual, 3600)
		So(result.AccessToken, ShouldNotBeEmpty)

		p, err := svc.ValidateToken(result.AccessToken)
		So(err, ShouldBeNil)
		So(p.ID, ShouldEqual, alice.ID)
		So(p.Username, ShouldEqual, "alice")
		So(p.HasAuthority("ROLE_USER"), ShouldBeTrue)

		_, err = svc.ValidateToken(result.AccessToken + "x")
		So(err, ShouldNotBeNil)

		_, err = svc.ValidateToken("not-a-token")
		So(err, ShouldEqual, ErrTokenMalformed)
	})
}

func TestAuthService_ResolveOAuth2Account(t *testing.T) {
	Convey("OAuth2 账号解析", t, func() {
		ctx := context.Background()
		svc, users := newTestAuthService()

		Convey("首次登录创建账号，重复回调返回同一账号", func() {
			first, err := svc.ResolveOAuth2Account(ctx, "github", "octo", "octo@x.com")
			So(err, ShouldBeNil)
			So(first.Provider, ShouldEqual, "github")
			So(first.Password, ShouldBeEmpty)
			So(first.Active, ShouldBeTrue)
			So(first.Roles, ShouldResemble, []auth.RoleName{auth.RoleUser})

			second, err := svc.ResolveOAuth2Account(ctx, "github", "octo", "octo@x.com")
			So(err, ShouldBeNil)
			So(second.ID, ShouldEqual, first.ID)

			found, _ := users.Search(ctx, "octo")
			So(len(found), ShouldEqual, 1)
		})

		Convey("同一用户名在不同 provider 下是不同账号", func() {
			local := registerAlice(svc)
			gh, err := svc.ResolveOAuth2Account(ctx, "github", "alice", "alice@github.com")
			So(err, ShouldBeNil)
			So(gh.ID, ShouldNotEqual, local.ID)
		})

		Convey("三元组精确命中", func() {
			other := &auth.User{ID: 10, Username: "dup", Email: "a@x.com", Provider: "google", Active: true, Roles: []auth.RoleName{auth.RoleUser}}
			So(users.Create(ctx, other), ShouldBeNil)
			exact := &auth.User{ID: 5, Username: "dup2", Email: "b@x.com", Provider: "google", Active: true, Roles: []auth.RoleName{auth.RoleUser}}
			So(users.Create(ctx, exact), ShouldBeNil)

			u, err := svc.ResolveOAuth2Account(ctx, "google", "dup2", "b@x.com")
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, 5)
		})

		Convey("(username, provider) 优先于 (email, provider)", func() {
			byEmail := &auth.User{ID: 1, Username: "old-name", Email: "same@x.com", Provider: "gitlab", Active: true, Roles: []auth.RoleName{auth.RoleUser}}
			byName := &auth.User{ID: 2, Username: "newname", Email: "other@x.com", Provider: "gitlab", Active: true, Roles: []auth.RoleName{auth.RoleUser}}
			So(users.Create(ctx, byEmail), ShouldBeNil)
			So(users.Create(ctx, byName), ShouldBeNil)

			u, err := svc.ResolveOAuth2Account(ctx, "gitlab", "newname", "same@x.com")
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, 2)
		})

		Convey("只有邮箱时按 (email, provider) 匹配", func() {
			existing := &auth.User{ID: 3, Username: "someone", Email: "only@x.com", Provider: "gitlab", Active: true, Roles: []auth.RoleName{auth.RoleUser}}
			So(users.Create(ctx, existing), ShouldBeNil)

			u, err := svc.ResolveOAuth2Account(ctx, "gitlab", "", "only@x.com")
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, 3)

			Convey("邮箱属于其他 provider 时创建新账号", func() {
				u, err := svc.ResolveOAuth2Account(ctx, "github", "", "only@x.com")
				So(err, ShouldBeNil)
				So(u.ID, ShouldNotEqual, 3)
				So(u.Username, ShouldEqual, "only@x.com")
			})
		})

		Convey("邮箱恰好等于他人用户名时不会绑定到对方账号", func() {
			bob, err := svc.ResolveOAuth2Account(ctx, "corp", "bob@x.com", "other@y.com")
			So(err, ShouldBeNil)

			u, err := svc.ResolveOAuth2Account(ctx, "corp", "", "bob@x.com")
			So(err, ShouldEqual, ErrOAuth2Conflict)
			So(u, ShouldBeNil)

			again, err := svc.ResolveOAuth2Account(ctx, "corp", "bob@x.com", "other@y.com")
			So(err, ShouldBeNil)
			So(again.ID, ShouldEqual, bob.ID)
		})

		Convey("参数不合法", func() {
			_, err := svc.ResolveOAuth2Account(ctx, "", "a", "a@x.com")
			So(err, ShouldEqual, ErrInvalidInput)
			_, err = svc.ResolveOAuth2Account(ctx, auth.ProviderLocal, "a", "a@x.com")
			So(err, ShouldEqual, ErrInvalidInput)
			_, err = svc.ResolveOAuth2Account(ctx, "github", "", "")
			So(err, ShouldEqual, ErrInvalidInput)
		})

		Convey("LoginOAuth2 对禁用账号返回 ErrAccountDisabled", func() {
			u, err := svc.ResolveOAuth2Account(ctx, "github", "octo", "octo@x.com")
			So(err, ShouldBeNil)
			u.Active = false
			So(users.Update(ctx, u), ShouldBeNil)

			_, err = svc.LoginOAuth2(ctx, "github", "octo", "octo@x.com")
			So(err, ShouldEqual, ErrAccountDisabled)
		})
	})
}

func TestAuthService_ResolveOAuth2AccountConcurrent(t *testing.T) {
	Convey("同一身份的并发回调只创建一个账号", t, func() {
		ctx := context.Background()
		const workers = 16

		cases := []struct {
			name            string
			username, email string
		}{
			{"带用户名", "octo", "octo@x.com"},
			{"只有邮箱", "", "mail-only@x.com"},
		}
		for _, tc := range cases {
			Convey(tc.name, func() {
				svc, users := newTestAuthService()

				ids := make([]int64, workers)
				errs := make([]error, workers)
				var wg sync.WaitGroup
				for i := 0; i < workers; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						u, err := svc.ResolveOAuth2Account(ctx, "github", tc.username, tc.email)
						errs[i] = err
						if u != nil {
							ids[i] = u.ID
						}
					}(i)
				}
				wg.Wait()

				for i := 0; i < workers; i++ {
					So(errs[i], ShouldBeNil)
					So(ids[i], ShouldEqual, ids[0])
				}

				found, err := users.Search(ctx, tc.email)
				So(err, ShouldBeNil)
				So(len(found), ShouldEqual, 1)
			})
		}
	})
}

func TestAuthService_EndToEnd(t *testing.T) {
	Convey("alice 注册、登录、删除后 CurrentUser 返回 NOT_FOUND", t, func() {
		ctx := context.Background()
		svc, _ := newTestAuthService()
		registerAlice(svc)

		p, err := svc.AuthenticateLocal(ctx, "alice", "pw123")
		So(err, ShouldBeNil)
		So(p.Authorities(), ShouldResemble, []string{"ROLE_USER"})

		_, err = svc.AuthenticateLocal(ctx, "alice", "wrong")
		So(err, ShouldEqual, ErrBadCredentials)

		reqCtx := ctxutil.WithPrincipal(ctx, p)
		user, err := svc.Resolver().CurrentUser(reqCtx)
		So(err, ShouldBeNil)
		So(user.Username, ShouldEqual, "alice")

		So(svc.DeleteUser(ctx, p.ID), ShouldBeNil)
		_, err = svc.Resolver().CurrentUser(reqCtx)
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	Convey("更新当前用户资料", t, func() {
		ctx := context.Background()
		svc, _ := newTestAuthService()
		alice := registerAlice(svc)
		_, err := svc.Register(ctx, RegisterInput{Username: "bob", Password: "pw", Email: "bob@x.com"})
		So(err, ShouldBeNil)

		p, err := svc.AuthenticateLocal(ctx, "alice", "pw123")
		So(err, ShouldBeNil)
		reqCtx := ctxutil.WithPrincipal(ctx, p)

		Convey("修改手机号和密码", func() {
			u, err := svc.UpdateProfile(reqCtx, UpdateProfileInput{Phone: "13800000000", Password: "newpw"})
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, alice.ID)
			So(u.Phone, ShouldEqual, "13800000000")

			_, err = svc.AuthenticateLocal(ctx, "alice", "pw123")
			So(err, ShouldEqual, ErrBadCredentials)
			_, err = svc.AuthenticateLocal(ctx, "alice", "newpw")
			So(err, ShouldBeNil)
		})

		Convey("第三方账号不能修改用户名和邮箱", func() {
			res, err := svc.LoginOAuth2(ctx, "github", "octo", "octo@x.com")
			So(err, ShouldBeNil)
			op, err := svc.ValidateToken(res.AccessToken)
			So(err, ShouldBeNil)
			octoCtx := ctxutil.WithPrincipal(ctx, op)

			_, err = svc.UpdateProfile(octoCtx, UpdateProfileInput{Username: "octo2"})
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
			_, err = svc.UpdateProfile(octoCtx, UpdateProfileInput{Email: "new@x.com"})
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)

			Convey("原值提交与其他字段照常更新", func() {
				u, err := svc.UpdateProfile(octoCtx, UpdateProfileInput{Username: "octo", Email: "octo@x.com", Phone: "13900000000"})
				So(err, ShouldBeNil)
				So(u.Phone, ShouldEqual, "13900000000")

				again, err := svc.ResolveOAuth2Account(ctx, "github", "octo", "octo@x.com")
				So(err, ShouldBeNil)
				So(again.ID, ShouldEqual, op.ID)
			})
		})

		Convey("改成已存在的用户名或邮箱", func() {
			_, err := svc.UpdateProfile(reqCtx, UpdateProfileInput{Username: "bob"})
			So(err, ShouldEqual, ErrUsernameTaken)
			_, err = svc.UpdateProfile(reqCtx, UpdateProfileInput{Email: "bob@x.com"})
			So(err, ShouldEqual, ErrEmailTaken)
		})
	})
}

func TestAuthService_SearchAndDelete(t *testing.T) {
	Convey("用户查询与删除", t, func() {
		ctx := context.Background()
		svc, _ := newTestAuthService()
		alice := registerAlice(svc)

		users, err := svc.SearchUsers(ctx, "ALI")
		So(err, ShouldBeNil)
		So(len(users), ShouldEqual, 1)
		So(users[0].ID, ShouldEqual, alice.ID)

		_, err = svc.SearchUsers(ctx, "zzz")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)

		So(svc.DeleteUser(ctx, alice.ID), ShouldBeNil)
		So(svc.DeleteUser(ctx, alice.ID), ShouldEqual, ErrNotFound)
	})
}
