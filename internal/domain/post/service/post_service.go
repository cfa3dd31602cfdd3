package service

import (
	"errors"
	"strings"
	"time"

	notifModel "socialnet/internal/domain/notification/model"
	notifService "socialnet/internal/domain/notification/service"
	"socialnet/internal/domain/post/model"
	"socialnet/internal/domain/post/repository"
	userModel "socialnet/internal/domain/user/model"
	"socialnet/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("operation not allowed")
)

// maxShareChainDepth 根帖解析的深度上限
// 正常数据里转发链是压扁的（长度 1），上限只是环路兜底
const maxShareChainDepth = 16

// UserSummary 帖子/评论里嵌的作者摘要
type UserSummary struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	ProfileImage string `json:"profileImage"`
	Verified     bool   `json:"verified"`
}

// PostResponse 帖子视图
// 转发帖总是带上根帖作者与内容；计数实时查询，不做反范式
type PostResponse struct {
	ID               uint         `json:"id"`
	Content          string       `json:"content"`
	ImageURL         string       `json:"imageUrl,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	User             UserSummary  `json:"user"`
	Likes            int64        `json:"likes"`
	Comments         int64        `json:"comments"`
	IsLiked          bool         `json:"isLiked"`
	IsSaved          bool         `json:"isSaved"`
	ShareCount       int          `json:"shareCount"`
	OriginalPostID   *uint        `json:"originalPostId,omitempty"`
	OriginalUser     *UserSummary `json:"originalUser,omitempty"`
	OriginalContent  string       `json:"originalContent,omitempty"`
	OriginalImageURL string       `json:"originalImageUrl,omitempty"`
}

// CommentResponse 评论视图
type CommentResponse struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	User      UserSummary `json:"user"`
}

// PostService 内容服务接口
type PostService interface {
	CreatePost(userID uint, content string, imageNames []string) (*PostResponse, error)
	UpdatePost(userID, postID uint, content string, keptImages string, newImageNames []string) (*PostResponse, error)
	DeletePost(userID, postID uint) error
	GetPostByID(viewerID, postID uint) (*PostResponse, error)
	GetAllPosts(viewerID uint) ([]PostResponse, error)
	GetUserPosts(viewerID, userID uint) ([]PostResponse, error)
	GetSavedPosts(userID uint) ([]PostResponse, error)

	ToggleLike(userID, postID uint) (bool, error)
	ToggleSave(userID, postID uint) (bool, error)
	SharePost(userID, postID uint) error

	AddComment(userID, postID uint, content, imageName string) (*CommentResponse, error)
	EditComment(userID, postID, commentID uint, content string) (*CommentResponse, error)
	DeleteComment(userID, postID, commentID uint) error
	GetComments(postID uint) ([]CommentResponse, error)
}

type postService struct {
	repo   repository.PostRepository
	notify notifService.NotificationService
}

// NewPostService 创建内容服务
func NewPostService(repo repository.PostRepository, notify notifService.NotificationService) PostService {
	return &postService{repo: repo, notify: notify}
}

// CreatePost 发帖，图片文件名逗号拼接存储
func (s *postService) CreatePost(userID uint, content string, imageNames []string) (*PostResponse, error) {
	post := &model.Post{
		UserID:   userID,
		Content:  content,
		ImageURL: strings.Join(imageNames, ","),
	}
	if err := s.repo.CreatePost(post); err != nil {
		return nil, err
	}

	created, err := s.repo.GetPostByID(post.ID)
	if err != nil {
		return nil, err
	}
	return s.convertToDTO(created, userID), nil
}

// UpdatePost 仅作者可改；图片集合整体替换：保留列表 + 新上传
func (s *postService) UpdatePost(userID, postID uint, content string, keptImages string, newImageNames []string) (*PostResponse, error) {
	post, err := s.getPost(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	images := make([]string, 0)
	if keptImages != "" {
		images = append(images, strings.Split(keptImages, ",")...)
	}
	images = append(images, newImageNames...)

	post.Content = content
	post.ImageURL = strings.Join(images, ",")

	if err := s.repo.UpdatePost(post); err != nil {
		return nil, err
	}
	return s.convertToDTO(post, userID), nil
}

// DeletePost 仅作者可删；整个删除在一个事务里：
// 删转发帖要先找到根帖并把 share_count 减一（下限 0），
// 再级联清掉帖子的点赞/评论/收藏行
func (s *postService) DeletePost(userID, postID uint) error {
	post, err := s.getPost(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}

	return s.repo.Transaction(func(tx repository.PostRepository) error {
		if post.IsShare() {
			root, err := resolveRoot(tx, post)
			if err != nil {
				return err
			}
			// 根帖可能已被删除，此时没有计数可减
			if root != nil && root.ID != post.ID {
				if err := tx.IncrementShareCount(root.ID, -1); err != nil {
					return err
				}
			}
		}

		if err := tx.DeleteLikesByPostID(postID); err != nil {
			return err
		}
		if err := tx.DeleteCommentsByPostID(postID); err != nil {
			return err
		}
		if err := tx.DeleteSavesByPostID(postID); err != nil {
			return err
		}
		return tx.DeletePost(postID)
	})
}

func (s *postService) GetPostByID(viewerID, postID uint) (*PostResponse, error) {
	post, err := s.getPost(postID)
	if err != nil {
		return nil, err
	}
	return s.convertToDTO(post, viewerID), nil
}

func (s *postService) GetAllPosts(viewerID uint) ([]PostResponse, error) {
	posts, err := s.repo.GetAllPosts()
	if err != nil {
		return nil, err
	}
	return s.convertAll(posts, viewerID), nil
}

func (s *postService) GetUserPosts(viewerID, userID uint) ([]PostResponse, error) {
	posts, err := s.repo.GetPostsByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.convertAll(posts, viewerID), nil
}

func (s *postService) GetSavedPosts(userID uint) ([]PostResponse, error) {
	posts, err := s.repo.GetSavedPosts(userID)
	if err != nil {
		return nil, err
	}
	return s.convertAll(posts, userID), nil
}

// ToggleLike 点赞开关：先尝试删，删到了就是取消；
// 否则插入（唯一索引 + ON CONFLICT 兜底并发），返回最终状态
func (s *postService) ToggleLike(userID, postID uint) (bool, error) {
	post, err := s.getPost(postID)
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.DeleteLike(userID, postID)
	if err != nil {
		return false, err
	}
	if deleted {
		return false, nil
	}

	if err := s.repo.CreateLike(userID, postID); err != nil {
		return false, err
	}

	s.notifyOwner(userID, post, notifModel.TypeLike)
	return true, nil
}

// ToggleSave 收藏开关，模式同点赞，不产生通知
func (s *postService) ToggleSave(userID, postID uint) (bool, error) {
	if _, err := s.getPost(postID); err != nil {
		return false, err
	}

	deleted, err := s.repo.DeleteSave(userID, postID)
	if err != nil {
		return false, err
	}
	if deleted {
		return false, nil
	}

	if err := s.repo.CreateSave(userID, postID); err != nil {
		return false, err
	}
	return true, nil
}

// SharePost 转发：找到被点帖子的根帖，根帖计数加一，
// 新建一条空内容帖指向根帖（链被压扁，所有转发都指向同一个根）
// 计数更新和新帖创建在同一个事务里
func (s *postService) SharePost(userID, postID uint) error {
	post, err := s.getPost(postID)
	if err != nil {
		return err
	}

	var root *model.Post
	err = s.repo.Transaction(func(tx repository.PostRepository) error {
		var err error
		root, err = resolveRoot(tx, post)
		if err != nil {
			return err
		}
		if root == nil {
			// 根帖已不存在，转发挂到被点的帖子本身
			root = post
		}

		if err := tx.IncrementShareCount(root.ID, 1); err != nil {
			return err
		}

		rootID := root.ID
		shared := &model.Post{
			UserID:         userID,
			Content:        "",
			ImageURL:       "",
			OriginalPostID: &rootID,
		}
		return tx.CreatePost(shared)
	})
	if err != nil {
		return err
	}

	s.notifyOwner(userID, root, notifModel.TypeShare)
	return nil
}

// AddComment 评论，可带单张图片
func (s *postService) AddComment(userID, postID uint, content, imageName string) (*CommentResponse, error) {
	post, err := s.getPost(postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		UserID:   userID,
		Content:  content,
		ImageURL: imageName,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}

	s.notifyOwner(userID, post, notifModel.TypeComment)

	created, err := s.repo.GetCommentByID(comment.ID)
	if err != nil {
		return nil, err
	}
	return convertCommentToDTO(created), nil
}

// EditComment 仅评论作者可改
func (s *postService) EditComment(userID, postID, commentID uint, content string) (*CommentResponse, error) {
	comment, err := s.getComment(postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	comment.Content = content
	if err := s.repo.UpdateComment(comment); err != nil {
		return nil, err
	}
	return convertCommentToDTO(comment), nil
}

// DeleteComment 评论作者或帖子作者都可删
func (s *postService) DeleteComment(userID, postID, commentID uint) error {
	comment, err := s.getComment(postID, commentID)
	if err != nil {
		return err
	}

	post, err := s.getPost(postID)
	if err != nil {
		return err
	}

	if comment.UserID != userID && post.UserID != userID {
		return ErrForbidden
	}
	return s.repo.DeleteComment(commentID)
}

func (s *postService) GetComments(postID uint) ([]CommentResponse, error) {
	comments, err := s.repo.GetCommentsByPostID(postID)
	if err != nil {
		return nil, err
	}
	result := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, *convertCommentToDTO(&comments[i]))
	}
	return result, nil
}

// --- 内部方法 ---

func (s *postService) getPost(postID uint) (*model.Post, error) {
	post, err := s.repo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) getComment(postID, commentID uint) (*model.Comment, error) {
	comment, err := s.repo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.PostID != postID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// notifyOwner 动作副作用通知，失败只记日志不影响主流程
func (s *postService) notifyOwner(actorID uint, post *model.Post, notifType string) {
	if post == nil {
		return
	}
	postID := post.ID
	if err := s.notify.Create(actorID, post.UserID, &postID, notifType); err != nil {
		logger.Log.Warn("create notification failed",
			zap.Uint("actor", actorID),
			zap.Uint("post", post.ID),
			zap.String("type", notifType),
			zap.Error(err),
		)
	}
}

// resolveRoot 沿 original_post_id 迭代走到根帖
// 深度上限 + 已访问集合双重防环；根帖缺失返回 nil
func resolveRoot(repo repository.PostRepository, post *model.Post) (*model.Post, error) {
	current := post
	seen := map[uint]bool{current.ID: true}

	for depth := 0; current.OriginalPostID != nil && depth < maxShareChainDepth; depth++ {
		next, err := repo.GetPostByID(*current.OriginalPostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if seen[next.ID] {
			// 数据出现环，停在当前节点
			break
		}
		seen[next.ID] = true
		current = next
	}
	return current, nil
}

// convertToDTO 组装帖子视图
// 每次都重新走到根帖，计数按需 COUNT；匿名观察者 isLiked/isSaved 恒为 false
func (s *postService) convertToDTO(post *model.Post, viewerID uint) *PostResponse {
	dto := &PostResponse{
		ID:             post.ID,
		Content:        post.Content,
		ImageURL:       post.ImageURL,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
		ShareCount:     post.ShareCount,
		OriginalPostID: post.OriginalPostID,
		User:           toUserSummary(post.User, post.UserID),
	}

	if likes, err := s.repo.CountLikes(post.ID); err == nil {
		dto.Likes = likes
	}
	if comments, err := s.repo.CountComments(post.ID); err == nil {
		dto.Comments = comments
	}

	if viewerID != 0 {
		if liked, err := s.repo.HasLiked(viewerID, post.ID); err == nil {
			dto.IsLiked = liked
		}
		if saved, err := s.repo.HasSaved(viewerID, post.ID); err == nil {
			dto.IsSaved = saved
		}
	}

	if post.IsShare() {
		root, err := resolveRoot(s.repo, post)
		if err == nil && root != nil && root.ID != post.ID {
			summary := toUserSummary(root.User, root.UserID)
			dto.OriginalUser = &summary
			dto.OriginalContent = root.Content
			dto.OriginalImageURL = root.ImageURL
		}
	}

	return dto
}

func (s *postService) convertAll(posts []model.Post, viewerID uint) []PostResponse {
	result := make([]PostResponse, 0, len(posts))
	for i := range posts {
		result = append(result, *s.convertToDTO(&posts[i], viewerID))
	}
	return result
}

func convertCommentToDTO(comment *model.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		ImageURL:  comment.ImageURL,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		User:      toUserSummary(comment.User, comment.UserID),
	}
}

func toUserSummary(user *userModel.User, fallbackID uint) UserSummary {
	if user == nil {
		return UserSummary{ID: fallbackID}
	}
	return UserSummary{
		ID:           user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		ProfileImage: user.ProfileImage,
		Verified:     user.Verified,
	}
}
