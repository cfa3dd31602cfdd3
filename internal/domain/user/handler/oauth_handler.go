package handler

import (
	"errors"
	"net/http"
	"net/url"

	"socialnet/internal/domain/user/service"
	"socialnet/internal/pkg/config"
	"socialnet/pkg/logger"
	"socialnet/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OAuthHandler Google 登录处理器
type OAuthHandler struct {
	service service.OAuthService
}

func NewOAuthHandler(s service.OAuthService) *OAuthHandler {
	return &OAuthHandler{service: s}
}

// GoogleLogin 重定向到 Google 授权页
// @Summary Google 登录入口
// @Tags Auth
// @Router /api/auth/oauth2/google [get]
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	authURL, err := h.service.AuthURL(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback 授权回调
// 成功时跳回前端并用查询参数携带 token/用户名，失败携带 error 参数
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	frontend := config.GlobalConfig.App.FrontendURL

	result, err := h.service.HandleCallback(c.Request.Context(), code, state)
	if err != nil {
		logger.Log.Warn("oauth callback failed", zap.Error(err))
		msg := "oauth_failed"
		if errors.Is(err, service.ErrStateMismatch) {
			msg = "state_mismatch"
		}
		c.Redirect(http.StatusFound, frontend+"/login?error="+url.QueryEscape(msg))
		return
	}

	params := url.Values{}
	params.Set("token", result.Token)
	params.Set("username", result.User.Username)
	params.Set("email", result.User.Email)
	c.Redirect(http.StatusFound, frontend+"/oauth2/redirect?"+params.Encode())
}
