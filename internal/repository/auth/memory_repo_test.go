package auth

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"shopfront/internal/model/auth"
)

func TestMemoryUserRepo(t *testing.T) {
	runUserStoreSuite(t, func() userStore { return NewMemoryUserRepo() })
}

func TestMemoryUserRepo_ConcurrentCreate(t *testing.T) {
	Convey("并发注册同一用户名只有一个成功", t, func() {
		repo := NewMemoryUserRepo()
		ctx := context.Background()

		var wg sync.WaitGroup
		results := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- repo.Create(ctx, newTestUser("racer", "", auth.ProviderLocal))
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				So(err, ShouldEqual, ErrDuplicateUsername)
			}
		}
		So(succeeded, ShouldEqual, 1)
	})
}

func TestMemoryUserRepo_ReturnsCopies(t *testing.T) {
	Convey("返回值修改不影响存储", t, func() {
		repo := NewMemoryUserRepo()
		ctx := context.Background()
		u := newTestUser("copy", "copy@example.com", auth.ProviderLocal)
		So(repo.Create(ctx, u), ShouldBeNil)

		found, err := repo.FindByID(ctx, u.ID)
		So(err, ShouldBeNil)
		found.Roles[0] = auth.RoleAdmin

		again, err := repo.FindByID(ctx, u.ID)
		So(err, ShouldBeNil)
		So(again.Roles, ShouldResemble, []auth.RoleName{auth.RoleUser})
	})
}

func TestMemoryRoleRepo(t *testing.T) {
	Convey("角色仓库", t, func() {
		repo := NewMemoryRoleRepo()
		ctx := context.Background()

		_, err := repo.FindByName(ctx, auth.RoleUser)
		So(err, ShouldEqual, ErrRoleNotFound)

		So(repo.EnsureDefaults(ctx), ShouldBeNil)
		role, err := repo.FindByName(ctx, auth.RoleModerator)
		So(err, ShouldBeNil)
		So(role.Name, ShouldEqual, auth.RoleModerator)
	})
}
