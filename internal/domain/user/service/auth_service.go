package service

import (
	"errors"
	"time"

	"socialnet/internal/domain/user/model"
	"socialnet/internal/domain/user/repository"
	"socialnet/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 账号/认证错误
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthResult 登录/注册结果：Token + 用户信息回显
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresAt *time.Time  `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// AuthService 账号服务接口
type AuthService interface {
	Signup(username, email, password, fullName string) (*AuthResult, error)
	Login(usernameOrEmail, password string) (*AuthResult, error)
}

type authService struct {
	repo repository.UserRepository
}

// NewAuthService 创建账号服务
func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

// Signup 注册：用户名/邮箱唯一，密码单向哈希后入库
func (s *authService) Signup(username, email, password, fullName string) (*AuthResult, error) {
	exists, err := s.repo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	exists, err = s.repo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
		Enabled:  true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login 登录：标识可以是用户名或邮箱
// 账号不存在和密码错误返回同一个错误，不泄露账号是否存在
func (s *authService) Login(usernameOrEmail, password string) (*AuthResult, error) {
	user, err := s.repo.GetByUsernameOrEmail(usernameOrEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Enabled {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *model.User) (*AuthResult, error) {
	token, expireAt, err := utils.GenerateToken(user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expireAt, User: user}, nil
}
