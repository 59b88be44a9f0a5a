package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestUser_HasRole(t *testing.T) {
	Convey("HasRole 只匹配完整角色名", t, func() {
		u := &User{Provider: ProviderLocal, Roles: []RoleName{RoleUser, RoleAdmin}}
		So(u.HasRole(RoleAdmin), ShouldBeTrue)
		So(u.HasRole(RoleModerator), ShouldBeFalse)
		So(u.HasRole("admin"), ShouldBeFalse)
		So(u.IsLocal(), ShouldBeTrue)

		So((&User{Provider: "github"}).HasRole(RoleUser), ShouldBeFalse)
	})
}
