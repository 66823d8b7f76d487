package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"penhub/internal/models"
	"penhub/internal/repository"

	"gorm.io/gorm"
)

// PostInput 创建/编辑帖子时提交的字段
type PostInput struct {
	Text    string
	GroupID *uint
	Image   string // 为空时编辑保留原图
}

type PostService struct {
	posts  repository.PostRepository
	groups repository.GroupRepository
	users  repository.UserRepository
}

func NewPostService(posts repository.PostRepository, groups repository.GroupRepository, users repository.UserRepository) *PostService {
	return &PostService{posts: posts, groups: groups, users: users}
}

func (s *PostService) validate(ctx context.Context, in *PostInput) error {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return newValidationError("text", "post text must not be empty")
	}
	if in.GroupID != nil {
		if *in.GroupID == 0 {
			in.GroupID = nil
			return nil
		}
		if _, err := s.groups.GetByID(ctx, *in.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newValidationError("group", "selected group does not exist")
			}
			return fmt.Errorf("load group: %w", err)
		}
	}
	return nil
}

// Create 作者发布新帖子
func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	if authorID == 0 {
		return nil, ErrUnauthenticated
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:  authorID,
		Text:    in.Text,
		GroupID: in.GroupID,
		Image:   in.Image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Update 仅作者本人可以编辑
func (s *PostService) Update(ctx context.Context, postID, editorID uint, in PostInput) (*models.Post, error) {
	if editorID == 0 {
		return nil, ErrUnauthenticated
	}
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != editorID {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	if in.Image != "" {
		post.Image = in.Image
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", postID))
	}
	return post, nil
}

// AuthorPostCount 作者发布的帖子总数，详情页侧栏使用
func (s *PostService) AuthorPostCount(ctx context.Context, authorID uint) (int64, error) {
	return s.users.CountPosts(ctx, authorID)
}

func (s *PostService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.groups.List(ctx)
}

// Recent 按全站顺序返回最新的 limit 篇帖子，sitemap 使用
func (s *PostService) Recent(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.posts.List(ctx, repository.PostFilter{}, 0, limit)
}
