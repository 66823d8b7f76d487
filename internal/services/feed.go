package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"penhub/internal/models"
	"penhub/internal/repository"
)

const DefaultPageSize = 10

type ViewKind int

const (
	ViewGlobal ViewKind = iota
	ViewGroup
	ViewAuthor
	ViewFollow
)

func (k ViewKind) String() string {
	switch k {
	case ViewGroup:
		return "group"
	case ViewAuthor:
		return "author"
	case ViewFollow:
		return "follow"
	default:
		return "global"
	}
}

// View 选择 feed 的来源范围
type View struct {
	Kind     ViewKind
	Slug     string
	Username string
	UserID   uint
}

func GlobalView() View { return View{Kind: ViewGlobal} }
func GroupView(slug string) View { return View{Kind: ViewGroup, Slug: slug} }
func AuthorView(username string) View { return View{Kind: ViewAuthor, Username: username} }
func FollowView(userID uint) View { return View{Kind: ViewFollow, UserID: userID} }

// Filter 在视图之上做额外收窄，零值表示不收窄
type Filter struct {
	Text string
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Text) == ""
}

// FeedPage 一页 feed 及分页信息
type FeedPage struct {
	Posts      []models.Post
	Number     int
	TotalPages int
	TotalCount int64
	PerPage    int

	View   View
	Filter Filter
	Group  *models.Group // ViewGroup 时填充
	Author *models.User  // ViewAuthor 时填充
}

func (p *FeedPage) HasPrev() bool { return p.Number > 1 }
func (p *FeedPage) HasNext() bool { return p.Number < p.TotalPages }
func (p *FeedPage) PrevNumber() int { return p.Number - 1 }
func (p *FeedPage) NextNumber() int { return p.Number + 1 }

// Pages 返回 1..TotalPages，供模板生成页码
func (p *FeedPage) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// ParsePage 解析 ?page= 参数：缺失、非数字或小于 1 时均视为第 1 页
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

type FeedComposer struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	follows  *FollowGraph
	perPage  int
}

func NewFeedComposer(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	follows *FollowGraph,
	perPage int,
) *FeedComposer {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &FeedComposer{
		posts:    posts,
		groups:   groups,
		users:    users,
		comments: comments,
		follows:  follows,
		perPage:  perPage,
	}
}

func (f *FeedComposer) PerPage() int { return f.perPage }

// Compose 按 created_at DESC, id DESC 返回视图的第 page 页。
// 超出范围的页码收敛到最后一页；没有任何帖子时返回唯一的空页。
func (f *FeedComposer) Compose(ctx context.Context, view View, filter Filter, page int) (*FeedPage, error) {
	result := &FeedPage{View: view, Filter: filter, PerPage: f.perPage}
	scope := repository.PostFilter{Text: filter.Text}

	switch view.Kind {
	case ViewGlobal:
	case ViewGroup:
		group, err := f.groups.GetBySlug(ctx, view.Slug)
		if err != nil {
			return nil, notFound(err, "group "+view.Slug)
		}
		result.Group = group
		scope.GroupID = group.ID
	case ViewAuthor:
		author, err := f.users.GetByUsername(ctx, view.Username)
		if err != nil {
			return nil, notFound(err, "user "+view.Username)
		}
		result.Author = author
		scope.AuthorID = author.ID
	case ViewFollow:
		if view.UserID == 0 {
			return nil, ErrUnauthenticated
		}
		authors, err := f.follows.FollowedAuthors(ctx, view.UserID)
		if err != nil {
			return nil, err
		}
		if len(authors) == 0 {
			result.Number, result.TotalPages = 1, 1
			return result, nil
		}
		scope.AuthorIDs = authors
	default:
		return nil, fmt.Errorf("unknown feed view %d", view.Kind)
	}

	total, err := f.posts.Count(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	totalPages := int((total + int64(f.perPage) - 1) / int64(f.perPage))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	result.TotalCount = total
	result.TotalPages = totalPages
	result.Number = page
	if total == 0 {
		return result, nil
	}

	posts, err := f.posts.List(ctx, scope, (page-1)*f.perPage, f.perPage)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := f.fillCommentCounts(ctx, posts); err != nil {
		return nil, err
	}
	result.Posts = posts
	return result, nil
}

// fillCommentCounts 批量填充帖子的评论数量
func (f *FeedComposer) fillCommentCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := f.comments.CountByPosts(ctx, ids)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}
