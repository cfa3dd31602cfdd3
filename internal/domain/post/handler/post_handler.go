package handler

import (
	"errors"
	"net/http"
	"strconv"

	"socialnet/internal/domain/post/service"
	"socialnet/internal/pkg/middleware"
	"socialnet/internal/pkg/uploader"
	"socialnet/pkg/response"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService service.PostService
	uploader    uploader.Uploader
}

func NewPostHandler(postService service.PostService, up uploader.Uploader) *PostHandler {
	return &PostHandler{postService: postService, uploader: up}
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags post
// @Accept multipart/form-data
// @Param content formData string false "文字内容"
// @Param images formData file false "图片，可多张"
// @Success 200 {object} response.Response
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	content := c.PostForm("content")
	imageNames, ok := h.saveImages(c)
	if !ok {
		return
	}
	if content == "" && len(imageNames) == 0 {
		response.Fail(c, response.ErrInvalidParam, "content or images required")
		return
	}

	post, err := h.postService.CreatePost(userID, content, imageNames)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 编辑帖子，图片集合整体替换
// @Router /api/posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	content := c.PostForm("content")
	keptImages := c.PostForm("keptImages")
	imageNames, saved := h.saveImages(c)
	if !saved {
		return
	}

	post, err := h.postService.UpdatePost(userID, postID, content, keptImages, imageNames)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除帖子
// @Router /api/posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.DeletePost(userID, postID); err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetPost 帖子详情，匿名可看
// @Router /api/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := h.postService.GetPostByID(viewerID, postID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, post)
}

// GetAllPosts 时间线，按创建时间倒序
// @Router /api/posts [get]
func (h *PostHandler) GetAllPosts(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)

	posts, err := h.postService.GetAllPosts(viewerID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetUserPosts 某用户的帖子
// @Router /api/posts/user/{id} [get]
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	posts, err := h.postService.GetUserPosts(viewerID, userID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetSavedPosts 当前用户的收藏
// @Router /api/posts/saved [get]
func (h *PostHandler) GetSavedPosts(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	posts, err := h.postService.GetSavedPosts(userID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, posts)
}

// ToggleLike 点赞/取消点赞
// @Router /api/posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	liked, err := h.postService.ToggleLike(userID, postID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}

// ToggleSave 收藏/取消收藏
// @Router /api/posts/{id}/save [post]
func (h *PostHandler) ToggleSave(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	saved, err := h.postService.ToggleSave(userID, postID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, gin.H{"saved": saved})
}

// SharePost 转发
// @Router /api/posts/{id}/share [post]
func (h *PostHandler) SharePost(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.SharePost(userID, postID); err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, nil)
}

// AddComment 评论，可带一张图
// @Router /api/posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	content := c.PostForm("content")
	imageName := ""
	if file, err := c.FormFile("image"); err == nil {
		name, err := h.uploader.UploadFile(file)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "upload failed")
			return
		}
		imageName = name
	}
	if content == "" && imageName == "" {
		response.Fail(c, response.ErrInvalidParam, "content or image required")
		return
	}

	comment, err := h.postService.AddComment(userID, postID, content, imageName)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, comment)
}

// EditComment 编辑评论
// @Router /api/posts/{id}/comments/{commentId} [put]
func (h *PostHandler) EditComment(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, response.ErrInvalidParam, err.Error())
		return
	}

	comment, err := h.postService.EditComment(userID, postID, commentID, input.Content)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 删除评论（评论作者或帖子作者）
// @Router /api/posts/{id}/comments/{commentId} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}

	if err := h.postService.DeleteComment(userID, postID, commentID); err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetComments 帖子的评论列表
// @Router /api/posts/{id}/comments [get]
func (h *PostHandler) GetComments(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := h.postService.GetComments(postID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, comments)
}

// saveImages 存 multipart 里的 images 字段，失败时已写响应
func (h *PostHandler) saveImages(c *gin.Context) ([]string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, true
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, true
	}

	names, err := uploader.UploadAll(h.uploader, files)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "upload failed")
		return nil, false
	}
	return names, true
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidParam, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func writePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPostNotFound, "post not found")
	case errors.Is(err, service.ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCommentNotFound, "comment not found")
	case errors.Is(err, service.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "no permission")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "internal error")
	}
}
