package auth

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"shopfront/internal/model/auth"
	"shopfront/internal/pkg/id"
)

// userStore MongoDB 与内存实现共同满足的接口，两者共用同一组用例
type userStore interface {
	Create(ctx context.Context, user *auth.User) error
	FindByID(ctx context.Context, id int64) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	FindByUsernameAndProviderAndEmail(ctx context.Context, username, provider, email string) (*auth.User, error)
	FindByUsernameAndProvider(ctx context.Context, username, provider string) (*auth.User, error)
	FindByEmailAndProvider(ctx context.Context, email, provider string) (*auth.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Search(ctx context.Context, keyword string) ([]*auth.User, error)
	Update(ctx context.Context, user *auth.User) error
	Delete(ctx context.Context, id int64) error
}

func newTestUser(username, email, provider string) *auth.User {
	return &auth.User{
		ID:       id.Next(),
		Username: username,
		Email:    email,
		Password: "hash",
		Phone:    "0123456789",
		Active:   true,
		Provider: provider,
		Roles:    []auth.RoleName{auth.RoleUser},
	}
}

func runUserStoreSuite(t *testing.T, newStore func() userStore) {
	ctx := context.Background()

	Convey("用户仓库查询", t, func() {
		store := newStore()

		john := newTestUser("john_doe", "john@example.com", "google")
		So(store.Create(ctx, john), ShouldBeNil)

		Convey("按用户名查询", func() {
			found, err := store.FindByUsername(ctx, "john_doe")
			So(err, ShouldBeNil)
			So(found.Email, ShouldEqual, "john@example.com")
			So(found.Roles, ShouldResemble, []auth.RoleName{auth.RoleUser})
		})

		Convey("存在性检查", func() {
			ok, err := store.ExistsByUsername(ctx, "john_doe")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = store.ExistsByEmail(ctx, "john@example.com")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = store.ExistsByUsername(ctx, "nobody")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("provider 维度的三种查询", func() {
			u, err := store.FindByUsernameAndProviderAndEmail(ctx, "john_doe", "google", "john@example.com")
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, john.ID)

			u, err = store.FindByUsernameAndProvider(ctx, "john_doe", "google")
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, john.ID)

			u, err = store.FindByEmailAndProvider(ctx, "john@example.com", "google")
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, john.ID)

			_, err = store.FindByUsernameAndProvider(ctx, "john_doe", "github")
			So(err, ShouldEqual, ErrUserNotFound)

			_, err = store.FindByUsernameAndProviderAndEmail(ctx, "john_doe", "google", "other@example.com")
			So(err, ShouldEqual, ErrUserNotFound)
		})

		Convey("同一 provider 下用户名唯一", func() {
			err := store.Create(ctx, newTestUser("john_doe", "john2@example.com", "google"))
			So(err, ShouldEqual, ErrDuplicateUsername)
		})

		Convey("同一 provider 下邮箱唯一", func() {
			err := store.Create(ctx, newTestUser("johnny", "john@example.com", "google"))
			So(err, ShouldEqual, ErrDuplicateEmail)
		})

		Convey("不同 provider 可以使用相同用户名与邮箱", func() {
			other := newTestUser("john_doe", "john@example.com", "github")
			So(store.Create(ctx, other), ShouldBeNil)

			u, err := store.FindByUsernameAndProvider(ctx, "john_doe", "github")
			So(err, ShouldBeNil)
			So(u.ID, ShouldEqual, other.ID)
		})

		Convey("没有邮箱的账号互不冲突", func() {
			So(store.Create(ctx, newTestUser("a_no_mail", "", "github")), ShouldBeNil)
			So(store.Create(ctx, newTestUser("b_no_mail", "", "github")), ShouldBeNil)
		})

		Convey("关键字搜索", func() {
			So(store.Create(ctx, newTestUser("awesome_user", "awesome@example.com", "local")), ShouldBeNil)

			users, err := store.Search(ctx, "SOME")
			So(err, ShouldBeNil)
			So(len(users), ShouldEqual, 1)
			So(users[0].Username, ShouldEqual, "awesome_user")

			users, err = store.Search(ctx, "notfound")
			So(err, ShouldBeNil)
			So(users, ShouldBeEmpty)
		})

		Convey("更新与删除", func() {
			john.Phone = "999"
			So(store.Update(ctx, john), ShouldBeNil)

			u, err := store.FindByID(ctx, john.ID)
			So(err, ShouldBeNil)
			So(u.Phone, ShouldEqual, "999")

			So(store.Delete(ctx, john.ID), ShouldBeNil)
			_, err = store.FindByID(ctx, john.ID)
			So(err, ShouldEqual, ErrUserNotFound)

			So(store.Delete(ctx, john.ID), ShouldEqual, ErrUserNotFound)
			So(store.Update(ctx, john), ShouldEqual, ErrUserNotFound)
		})
	})
}
