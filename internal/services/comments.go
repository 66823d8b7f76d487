package services

import (
	"context"
	"fmt"
	"strings"

	"penhub/internal/models"
	"penhub/internal/repository"
)

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// AddComment 为帖子添加评论，文本为空时不写入任何数据
func (s *CommentService) AddComment(ctx context.Context, postID, authorID uint, text string) (*models.Comment, error) {
	if authorID == 0 {
		return nil, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newValidationError("text", "comment text must not be empty")
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", postID))
	}

	comment := &models.Comment{PostID: postID, UserID: authorID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ListComments 最新的评论在前
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Count(ctx context.Context, postID uint) (int64, error) {
	return s.comments.CountByPost(ctx, postID)
}
