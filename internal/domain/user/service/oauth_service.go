package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"socialnet/internal/domain/user/model"
	"socialnet/internal/domain/user/repository"
	"socialnet/pkg/cache"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// ErrStateMismatch OAuth 回调的 state 与会话绑定值不一致（CSRF 防护），调用方必须中止
var ErrStateMismatch = errors.New("oauth state mismatch")

const (
	oauthStateKeyPrefix = "oauth:state:"
	oauthStateTTL       = time.Minute * 10
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleIdentity 身份提供方返回的声明
type GoogleIdentity struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
}

// OAuthService 第三方登录服务
type OAuthService interface {
	// AuthURL 生成一次性 state 并返回 Google 授权跳转地址
	AuthURL(ctx context.Context) (string, error)
	// HandleCallback 校验 state、用 code 换取身份并登录/注册
	HandleCallback(ctx context.Context, code, state string) (*AuthResult, error)
}

type oauthService struct {
	repo  repository.UserRepository
	cache cache.CacheService
	auth  AuthService
	conf  *oauth2.Config

	// 测试时可替换，默认走 Google 的 token + userinfo 端点
	fetchIdentity func(ctx context.Context, code string) (*GoogleIdentity, error)
}

// GoogleOAuthParams 创建服务所需的静态配置
type GoogleOAuthParams struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewOAuthService 创建 Google OAuth 服务
func NewOAuthService(repo repository.UserRepository, cacheService cache.CacheService, params GoogleOAuthParams) OAuthService {
	conf := &oauth2.Config{
		ClientID:     params.ClientID,
		ClientSecret: params.ClientSecret,
		RedirectURL:  params.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	s := &oauthService{
		repo:  repo,
		cache: cacheService,
		auth:  NewAuthService(repo),
		conf:  conf,
	}
	s.fetchIdentity = s.exchangeAndFetch
	return s
}

// AuthURL 生成授权地址，state 一次性有效，10 分钟过期
func (s *oauthService) AuthURL(ctx context.Context) (string, error) {
	state := uuid.New().String()
	if err := s.cache.SetString(ctx, oauthStateKeyPrefix+state, "1", oauthStateTTL); err != nil {
		return "", err
	}

	url := s.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account consent"),
	)
	return url, nil
}

// HandleCallback 回调处理
// state 校验失败是致命错误，绝不继续向下执行
func (s *oauthService) HandleCallback(ctx context.Context, code, state string) (*AuthResult, error) {
	if state == "" {
		return nil, ErrStateMismatch
	}
	if _, err := s.cache.Take(ctx, oauthStateKeyPrefix+state); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrStateMismatch
		}
		return nil, err
	}

	identity, err := s.fetchIdentity(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.findOrCreateUser(identity)
	if err != nil {
		return nil, err
	}

	return (&authService{repo: s.repo}).issueToken(user)
}

// exchangeAndFetch 用授权码换 access token，再查 userinfo
func (s *oauthService) exchangeAndFetch(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	client := s.conf.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &identity, nil
}

// findOrCreateUser 按邮箱找账号，没有则创建
// 用户名冲突时追加数字后缀直到唯一
func (s *oauthService) findOrCreateUser(identity *GoogleIdentity) (*model.User, error) {
	user, err := s.repo.GetByEmail(identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	base := identity.GivenName
	if base == "" {
		base = identity.Email
		for i, r := range base {
			if r == '@' {
				base = base[:i]
				break
			}
		}
	}

	username, err := s.uniqueUsername(base)
	if err != nil {
		return nil, err
	}

	user = &model.User{
		Username: username,
		Email:    identity.Email,
		Password: "", // OAuth 账号没有本地密码，bcrypt 对空哈希永远比对失败
		FullName: identity.Name,
		Enabled:  true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *oauthService) uniqueUsername(base string) (string, error) {
	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := s.repo.ExistsByUsername(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(suffix)
	}
}
