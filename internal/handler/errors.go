package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httpx "shopfront/internal/pkg/http"
	"shopfront/internal/pkg/oauth2"
	"shopfront/internal/service"
	"shopfront/internal/service/shop"
)

// 业务错误码
const (
	CodeInvalidRequest    = 40001
	CodeEmptyCart         = 40002
	CodeUnauthorized      = 40101
	CodeTokenExpired      = 40102
	CodeTokenMalformed    = 40103
	CodeTokenBadSig       = 40104
	CodeBadCredentials    = 40105
	CodeAccountDisabled   = 40301
	CodeForbidden         = 40302
	CodeNotFound          = 40401
	CodeUsernameTaken     = 40901
	CodeEmailTaken        = 40902
	CodeOAuth2Conflict    = 40903
	CodeOutOfStock        = 40904
	CodeInvalidStatus     = 40905
	CodeTooManyRequests   = 42901
	CodeInternal          = 50001
	CodeOAuth2Unavailable = 50201
)

type errorMapping struct {
	err     error
	status  int
	code    int
	message string
}

// errorMappings 按顺序匹配（errors.Is）
var errorMappings = []errorMapping{
	{service.ErrBadCredentials, http.StatusUnauthorized, CodeBadCredentials, "用户名或密码错误"},
	{service.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired, "Token已过期"},
	{service.ErrTokenMalformed, http.StatusUnauthorized, CodeTokenMalformed, "Token格式错误"},
	{service.ErrTokenBadSignature, http.StatusUnauthorized, CodeTokenBadSig, "Token签名无效"},
	{service.ErrAccountDisabled, http.StatusForbidden, CodeAccountDisabled, "账号已被禁用"},
	{shop.ErrForbidden, http.StatusForbidden, CodeForbidden, "无权操作"},
	{service.ErrNotFound, http.StatusNotFound, CodeNotFound, "记录不存在"},
	{service.ErrUsernameTaken, http.StatusConflict, CodeUsernameTaken, "用户名已被占用"},
	{service.ErrEmailTaken, http.StatusConflict, CodeEmailTaken, "邮箱已被注册"},
	{service.ErrOAuth2Conflict, http.StatusConflict, CodeOAuth2Conflict, "第三方账号与现有账号冲突"},
	{shop.ErrOutOfStock, http.StatusConflict, CodeOutOfStock, "库存不足"},
	{shop.ErrInvalidStatus, http.StatusConflict, CodeInvalidStatus, "订单状态不允许该操作"},
	{shop.ErrEmptyCart, http.StatusBadRequest, CodeEmptyCart, "购物车为空"},
	{service.ErrInvalidInput, http.StatusBadRequest, CodeInvalidRequest, "请求参数错误"},
	{oauth2.ErrUnknownProvider, http.StatusNotFound, CodeNotFound, "不支持的登录方式"},
	{oauth2.ErrNoIdentity, http.StatusUnauthorized, CodeUnauthorized, "第三方身份信息不完整"},
}

// AbortWithError 将服务层错误映射为 HTTP 响应
func AbortWithError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			httpx.Abort(c, m.status, m.code, m.message, err.Error())
			return
		}
	}

	log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Str("request_id", c.GetString("request_id")).
		Msg("request failed")
	httpx.Abort(c, http.StatusInternalServerError, CodeInternal, "Internal Server Error")
}

// AbortInvalidRequest 请求参数绑定失败
func AbortInvalidRequest(c *gin.Context, err error) {
	httpx.Abort(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
}
