package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewPrincipal(t *testing.T) {
	Convey("NewPrincipal 从用户构建 Principal", t, func() {
		user := &User{
			ID:       1,
			Username: "testuser",
			Password: "password",
			Email:    "test@example.com",
			Phone:    "1234567890",
			Active:   true,
			Provider: ProviderLocal,
			Roles:    []RoleName{RoleUser},
		}

		p, err := NewPrincipal(user)
		So(err, ShouldBeNil)
		So(p.ID, ShouldEqual, 1)
		So(p.Username, ShouldEqual, "testuser")
		So(p.PasswordHash, ShouldEqual, "password")
		So(p.Email, ShouldEqual, "test@example.com")
		So(p.Phone, ShouldEqual, "1234567890")
		So(p.Active, ShouldBeTrue)
		So(p.Authorities(), ShouldResemble, []string{"ROLE_USER"})

		Convey("authority 与角色一一对应", func() {
			user.Roles = []RoleName{RoleAdmin, RoleModerator, RoleAdmin}
			p, err := NewPrincipal(user)
			So(err, ShouldBeNil)
			So(p.Authorities(), ShouldResemble, []string{"ROLE_ADMIN", "ROLE_MODERATOR"})
			So(p.HasAnyRole(RoleUser), ShouldBeFalse)
			So(p.HasAnyRole(RoleUser, RoleModerator), ShouldBeTrue)
		})

		Convey("角色为空不报错，authority 为空", func() {
			user.Roles = nil
			p, err := NewPrincipal(user)
			So(err, ShouldBeNil)
			So(p.Authorities(), ShouldBeEmpty)
			So(p.HasAuthority("ROLE_USER"), ShouldBeFalse)
		})

		Convey("修改返回的 authority 不影响 Principal", func() {
			a := p.Authorities()
			a[0] = "ROLE_ADMIN"
			So(p.HasAuthority("ROLE_ADMIN"), ShouldBeFalse)
		})
	})

	Convey("空用户返回 ErrNilUser", t, func() {
		p, err := NewPrincipal(nil)
		So(p, ShouldBeNil)
		So(err, ShouldEqual, ErrNilUser)
	})
}

func TestPrincipalFromToken(t *testing.T) {
	Convey("PrincipalFromToken 不持有密码", t, func() {
		authorities := []string{"ROLE_USER"}
		p := PrincipalFromToken(42, "alice", authorities)
		So(p.ID, ShouldEqual, 42)
		So(p.Username, ShouldEqual, "alice")
		So(p.PasswordHash, ShouldBeEmpty)
		So(p.Active, ShouldBeTrue)

		authorities[0] = "ROLE_ADMIN"
		So(p.HasAuthority("ROLE_ADMIN"), ShouldBeFalse)
	})
}
