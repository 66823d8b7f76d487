package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"penhub/internal/db/dbtest"
	"penhub/internal/models"
	"penhub/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	comments repository.CommentRepository

	follow  *FollowGraph
	feed    *FeedComposer
	comment *CommentService
	post    *PostService
	auth    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	f := &fixture{
		db:       conn,
		posts:    repository.NewPostRepository(conn),
		groups:   repository.NewGroupRepository(conn),
		users:    repository.NewUserRepository(conn),
		comments: repository.NewCommentRepository(conn),
	}
	f.follow = NewFollowGraph(repository.NewFollowRepository(conn), f.users)
	f.feed = NewFeedComposer(f.posts, f.groups, f.users, f.comments, f.follow, DefaultPageSize)
	f.comment = NewCommentService(f.comments, f.posts)
	f.post = NewPostService(f.posts, f.groups, f.users)
	f.auth = NewAuthService(f.users)
	return f
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, f.groups.Create(context.Background(), g))
	return g
}

// postAt 以指定时间创建帖子，保证排序可预测
func (f *fixture) postAt(t *testing.T, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{UserID: author.ID, Text: text, CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

// manyPosts 创建 n 个时间递增的帖子
func (f *fixture) manyPosts(t *testing.T, author *models.User, n int) []*models.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*models.Post, n)
	for i := 0; i < n; i++ {
		out[i] = f.postAt(t, author, nil, fmt.Sprintf("post %02d", i), base.Add(time.Duration(i)*time.Minute))
	}
	return out
}
