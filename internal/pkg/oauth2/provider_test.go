package oauth2

import (
	"errors"
	"net/url"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	. "github.com/smartystreets/goconvey/convey"
	goauth2 "golang.org/x/oauth2"
)

func TestIdentityFromClaims(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name     string
		claims   idClaims
		username string
		email    string
		err      error
	}{
		{
			name:     "preferred_username 优先",
			claims:   idClaims{PreferredUsername: "octo", Login: "octocat", Email: "octo@x.com", EmailVerified: &yes},
			username: "octo",
			email:    "octo@x.com",
		},
		{
			name:     "login 兜底",
			claims:   idClaims{Login: "octocat", Email: "octo@x.com"},
			username: "octocat",
			email:    "octo@x.com",
		},
		{
			name:     "未验证邮箱被丢弃",
			claims:   idClaims{Nickname: "nick", Email: "nick@x.com", EmailVerified: &no},
			username: "nick",
		},
		{
			name:   "只有未验证邮箱",
			claims: idClaims{Email: "x@x.com", EmailVerified: &no},
			err:    ErrNoIdentity,
		},
		{
			name:   "只有邮箱",
			claims: idClaims{Email: "only@x.com"},
			email:  "only@x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := identityFromClaims("github", tt.claims)
			if err != tt.err {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if err != nil {
				return
			}
			if id.Provider != "github" || id.Username != tt.username || id.Email != tt.email {
				t.Errorf("identity = %+v, want username %q email %q", id, tt.username, tt.email)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		cfg := goauth2.Config{
			ClientID:    "client",
			RedirectURL: "http://localhost:8080/api/v1/auth/oauth2/github/callback",
			Endpoint:    goauth2.Endpoint{AuthURL: "https://idp.example.com/authorize", TokenURL: "https://idp.example.com/token"},
			Scopes:      []string{oidc.ScopeOpenID, "email"},
		}
		verifier := oidc.NewVerifier("https://idp.example.com", &oidc.StaticKeySet{}, &oidc.Config{ClientID: "client"})
		r := &Registry{providers: map[string]IdentityProvider{}}
		r.Register(newProvider("github", cfg, verifier))

		Convey("AuthCodeURL 携带 state 与 client_id", func() {
			p, err := r.Get("github")
			So(err, ShouldBeNil)
			u, err := url.Parse(p.AuthCodeURL("state-123"))
			So(err, ShouldBeNil)
			So(u.Host, ShouldEqual, "idp.example.com")
			So(u.Query().Get("state"), ShouldEqual, "state-123")
			So(u.Query().Get("client_id"), ShouldEqual, "client")
		})

		Convey("未知 provider", func() {
			_, err := r.Get("gitlab")
			So(errors.Is(err, ErrUnknownProvider), ShouldBeTrue)
			So(r.Names(), ShouldResemble, []string{"github"})
		})
	})
}
