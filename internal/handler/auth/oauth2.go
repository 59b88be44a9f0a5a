package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shopfront/internal/handler"
	"shopfront/internal/pkg/cache"
	httpx "shopfront/internal/pkg/http"
	"shopfront/internal/pkg/id"
)

// OAuth2Login 跳转到第三方授权页
// @Summary      第三方登录
// @Description  生成一次性 state 并重定向到 OIDC 提供方
// @Tags         认证
// @Param        provider  path  string  true  "provider 名称"
// @Success      302
// @Failure      404  {object}  httpx.ErrorResponse
// @Router       /api/v1/auth/oauth2/{provider}/login [get]
func (h *Handler) OAuth2Login(c *gin.Context) {
	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	state := id.New()
	if err := h.states.Set(c.Request.Context(), cache.OAuth2StateKey(state), provider.Name(), cache.OAuth2StateTTL); err != nil {
		log.Error().Err(err).Str("provider", provider.Name()).Msg("failed to store oauth2 state")
		httpx.Abort(c, http.StatusServiceUnavailable, handler.CodeOAuth2Unavailable, "第三方登录暂不可用")
		return
	}

	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// OAuth2Callback 第三方授权回调
// @Summary      第三方登录回调
// @Description  校验 state，换取并校验 ID Token，解析或创建本地账号后签发 Access Token
// @Tags         认证
// @Produce      json
// @Param        provider  path   string  true  "provider 名称"
// @Param        state     query  string  true  "state"
// @Param        code      query  string  true  "授权码"
// @Success      200  {object}  httpx.SuccessResponse{data=LoginResponseData}
// @Failure      400  {object}  httpx.ErrorResponse
// @Failure      401  {object}  httpx.ErrorResponse
// @Failure      409  {object}  httpx.ErrorResponse
// @Router       /api/v1/auth/oauth2/{provider}/callback [get]
func (h *Handler) OAuth2Callback(c *gin.Context) {
	ctx := c.Request.Context()

	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	if e := c.Query("error"); e != "" {
		httpx.Abort(c, http.StatusUnauthorized, handler.CodeUnauthorized, "第三方授权被拒绝", e)
		return
	}

	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		httpx.Abort(c, http.StatusBadRequest, handler.CodeInvalidRequest, "missing state or code")
		return
	}
	// state 由 OAuth2Login 以 UUID 签发
	if !id.IsValid(state) {
		httpx.Abort(c, http.StatusBadRequest, handler.CodeInvalidRequest, "invalid or expired state")
		return
	}

	var issuedFor string
	err = h.states.Take(ctx, cache.OAuth2StateKey(state), &issuedFor)
	if errors.Is(err, cache.ErrMiss) || (err == nil && issuedFor != provider.Name()) {
		httpx.Abort(c, http.StatusBadRequest, handler.CodeInvalidRequest, "invalid or expired state")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to read oauth2 state")
		httpx.Abort(c, http.StatusServiceUnavailable, handler.CodeOAuth2Unavailable, "第三方登录暂不可用")
		return
	}

	identity, err := provider.Exchange(ctx, code)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider.Name()).Msg("oauth2 exchange failed")
		httpx.Abort(c, http.StatusUnauthorized, handler.CodeUnauthorized, "第三方身份校验失败")
		return
	}

	result, err := h.authService.LoginOAuth2(ctx, identity.Provider, identity.Username, identity.Email)
	if err != nil {
		handler.AbortWithError(c, err)
		return
	}

	httpx.OK(c, http.StatusOK, "登录成功", toLoginResponse(result))
}
