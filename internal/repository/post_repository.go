package repository

import (
	"context"
	"penhub/internal/models"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter 描述一次帖子列表查询的范围。零值表示不过滤。
type PostFilter struct {
	GroupID   uint
	AuthorID  uint
	AuthorIDs []uint // 非空时限定作者集合
	Text      string // 文本包含（不区分大小写）
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.SearchText = models.SearchKey(post.Text)
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	post.SearchText = models.SearchKey(post.Text)
	return r.db.WithContext(ctx).
		Model(post).
		Select("Text", "SearchText", "GroupID", "Image", "UpdatedAt").
		Updates(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) scope(ctx context.Context, filter PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.GroupID != 0 {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	if filter.AuthorID != 0 {
		q = q.Where("user_id = ?", filter.AuthorID)
	}
	if len(filter.AuthorIDs) > 0 {
		q = q.Where("user_id IN ?", filter.AuthorIDs)
	}
	if text := strings.TrimSpace(filter.Text); text != "" {
		q = q.Where(`search_text LIKE ? ESCAPE '\'`, "%"+escapeLike(models.SearchKey(text))+"%")
	}
	return q
}

// List 按 created_at DESC, id DESC 的全序返回一页帖子，作者与分组显式预加载
func (r *postRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.scope(ctx, filter).
		Preload("User").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var total int64
	err := r.scope(ctx, filter).Count(&total).Error
	return total, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike 转义 LIKE 通配符，使搜索词按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
