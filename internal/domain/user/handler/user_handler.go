package handler

import (
	"errors"
	"net/http"

	"socialnet/internal/domain/user/service"
	"socialnet/internal/pkg/middleware"
	"socialnet/internal/pkg/uploader"
	"socialnet/pkg/response"
	"socialnet/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户资料与社交图处理器
type UserHandler struct {
	service  service.UserService
	uploader uploader.Uploader
}

func NewUserHandler(s service.UserService, u uploader.Uploader) *UserHandler {
	return &UserHandler{service: s, uploader: u}
}

// GetProfile 当前登录用户的主页
// @Summary 我的主页
// @Tags Profile
// @Produce json
// @Success 200 {object} service.Profile
// @Router /api/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	username := middleware.CurrentUsername(c)

	profile, err := h.service.GetProfile(userID, username)
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, profile)
}

// GetProfileByUsername 查看指定用户主页，匿名可访问
func (h *UserHandler) GetProfileByUsername(c *gin.Context) {
	username := c.Param("username")
	viewerID := middleware.CurrentUserID(c)

	profile, err := h.service.GetProfile(viewerID, username)
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新资料（multipart：文本字段 + 头像/背景图文件）
// 图片先落存储，再把生成的文件名写进用户记录
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var input service.ProfileUpdateInput
	if v, ok := c.GetPostForm("fullName"); ok {
		input.FullName = &v
	}
	if v, ok := c.GetPostForm("bio"); ok {
		input.Bio = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		input.Location = &v
	}
	if v, ok := c.GetPostForm("website"); ok {
		input.Website = &v
	}

	if file, err := c.FormFile("profileImage"); err == nil {
		name, err := h.uploader.UploadFile(file)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
			return
		}
		input.ProfileImage = &name
	}
	if file, err := c.FormFile("backgroundImage"); err == nil {
		name, err := h.uploader.UploadFile(file)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
			return
		}
		input.BackgroundImage = &name
	}

	user, err := h.service.UpdateProfile(userID, input)
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, user)
}

// GetFollowing 当前用户的关注列表
func (h *UserHandler) GetFollowing(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	following, err := h.service.GetFollowing(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, following)
}

// ListUsers 用户推荐（不含自己）
func (h *UserHandler) ListUsers(c *gin.Context) {
	var p utils.Pagination
	_ = c.ShouldBindQuery(&p)
	viewerID := middleware.CurrentUserID(c)

	users, total, err := h.service.ListUsers(viewerID, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// SearchUsers 按用户名/姓名检索
// @Summary 用户检索
// @Tags Users
// @Param query query string true "关键字"
// @Router /api/users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "query is required")
		return
	}

	users, err := h.service.Search(middleware.CurrentUserID(c), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, users)
}

// FollowUser 关注
func (h *UserHandler) FollowUser(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	target := c.Param("username")

	if err := h.service.Follow(userID, target); err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, gin.H{"following": true})
}

// UnfollowUser 取消关注
func (h *UserHandler) UnfollowUser(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	target := c.Param("username")

	if err := h.service.Unfollow(userID, target); err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, gin.H{"following": false})
}

func (h *UserHandler) writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, err.Error())
	case errors.Is(err, service.ErrSelfFollow):
		response.Error(c, http.StatusBadRequest, response.ErrSelfFollow, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
