package handler

import (
	"errors"
	"net/http"

	"socialnet/internal/domain/user/service"
	"socialnet/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler 账号处理器
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler 创建处理器
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// SignupInput 注册输入
type SignupInput struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName"`
}

// LoginInput 登录输入，标识可以是用户名或邮箱
type LoginInput struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// Signup 注册
// @Summary 注册新账号
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body SignupInput true "注册信息"
// @Success 200 {object} service.AuthResult
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Signup(input.Username, input.Email, input.Password, input.FullName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			response.Error(c, http.StatusConflict, response.ErrDuplicateUsername, err.Error())
		case errors.Is(err, service.ErrDuplicateEmail):
			response.Error(c, http.StatusConflict, response.ErrDuplicateEmail, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, result)
}

// Login 登录
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "登录信息"
// @Success 200 {object} service.AuthResult
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Login(input.UsernameOrEmail, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrInvalidCredentials, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, result)
}
