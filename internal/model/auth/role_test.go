package auth

import (
	"testing"
)

func TestParseRequestedRoles(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []RoleName
	}{
		{name: "nil", input: nil, want: []RoleName{}},
		{name: "lowercase", input: []string{"admin", "moderator", "user"}, want: []RoleName{RoleAdmin, RoleModerator, RoleUser}},
		{name: "case insensitive", input: []string{"ADMIN", "Moderator"}, want: []RoleName{RoleAdmin, RoleModerator}},
		{name: "unknown ignored", input: []string{"superuser", "user"}, want: []RoleName{RoleUser}},
		{name: "full role name is not a request name", input: []string{"ROLE_USER"}, want: []RoleName{}},
		{name: "duplicates collapsed", input: []string{"admin", "Admin"}, want: []RoleName{RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequestedRoles(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRoleName_IsValid(t *testing.T) {
	for _, r := range AllRoles {
		if !r.IsValid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	if RoleName("ROLE_ROOT").IsValid() {
		t.Fatal("ROLE_ROOT should be invalid")
	}
}
