package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"penhub/internal/cache"
	"penhub/internal/middleware"
	"penhub/internal/models"
	"penhub/internal/services"
	"penhub/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedFragment 首页缓存的片段模板
const FeedFragment = "posts/index_feed.html"

type PostHandler struct {
	feed     *services.FeedComposer
	posts    *services.PostService
	comments *services.CommentService
	media    services.MediaStore
	cache    cache.PageCache
	cacheTTL time.Duration
	views    *views.Renderer
	log      *zap.Logger
}

func NewPostHandler(d Deps) *PostHandler {
	return &PostHandler{
		feed:     d.Feed,
		posts:    d.Posts,
		comments: d.Comments,
		media:    d.Media,
		cache:    d.PageCache,
		cacheTTL: d.CacheTTL,
		views:    d.Views,
		log:      d.Log,
	}
}

type postForm struct {
	Text    string `form:"text" binding:"required,max=20000"`
	GroupID uint   `form:"group"`
}

func (f postForm) input(image string) services.PostInput {
	in := services.PostInput{Text: f.Text, Image: image}
	if f.GroupID != 0 {
		id := f.GroupID
		in.GroupID = &id
	}
	return in
}

type commentForm struct {
	Text string `form:"text" binding:"max=5000"`
}

// Index 首页：全站 feed。渲染后的列表片段按页码缓存，TTL 内发布的新帖子不会立即出现。
func (h *PostHandler) Index(c *gin.Context) {
	page := services.ParsePage(c.Query("page"))

	fragment, err := h.cache.GetOrCompute(c.Request.Context(), cache.FeedPageKey(page), h.cacheTTL,
		func(ctx context.Context) ([]byte, error) {
			feed, err := h.feed.Compose(ctx, services.GlobalView(), services.Filter{}, page)
			if err != nil {
				return nil, err
			}
			return h.views.Bytes(FeedFragment, gin.H{"Page": feed})
		})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "posts/index.html", gin.H{
		"Feed": template.HTML(fragment),
	})
}

// Search 全站搜索，不走缓存
func (h *PostHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	data := gin.H{"Query": query}

	if query != "" {
		feed, err := h.feed.Compose(c.Request.Context(), services.GlobalView(),
			services.Filter{Text: query}, services.ParsePage(c.Query("page")))
		if err != nil {
			handleError(c, h.log, err)
			return
		}
		data["Page"] = feed
	}

	Render(c, http.StatusOK, "posts/search.html", data)
}

// GroupPosts 分组下的帖子列表
func (h *PostHandler) GroupPosts(c *gin.Context) {
	feed, err := h.feed.Compose(c.Request.Context(), services.GroupView(c.Param("slug")),
		services.Filter{}, services.ParsePage(c.Query("page")))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Group": feed.Group,
		"Page":  feed,
	})
}

// Detail 帖子详情与评论
func (h *PostHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := paramID(c, "id")
	if err != nil {
		NotFound(c)
		return
	}

	post, err := h.posts.Get(ctx, id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	comments, err := h.comments.ListComments(ctx, post.ID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	postCount, err := h.posts.AuthorPostCount(ctx, post.UserID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Post":            post,
		"Comments":        comments,
		"AuthorPostCount": postCount,
	})
}

func (h *PostHandler) renderForm(c *gin.Context, code int, form postForm, postID uint, errs map[string]string) {
	groups, err := h.posts.Groups(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	Render(c, code, "posts/create_post.html", gin.H{
		"Form":   form,
		"Groups": groups,
		"IsEdit": postID != 0,
		"PostID": postID,
		"Errors": errs,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, postForm{}, 0, nil)
}

// saveImage 保存可选的上传图片，没有文件时返回空字符串
func (h *PostHandler) saveImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	return h.media.Save(c.Request.Context(), header)
}

// Create 发布帖子，成功后跳转到作者主页
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, form, 0, formErrors(err))
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		h.formFailure(c, form, 0, err)
		return
	}

	if _, err := h.posts.Create(c.Request.Context(), user.ID, form.input(image)); err != nil {
		h.formFailure(c, form, 0, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+user.Username)
}

func (h *PostHandler) formFailure(c *gin.Context, form postForm, postID uint, err error) {
	if services.IsValidation(err) {
		h.renderForm(c, http.StatusBadRequest, form, postID, formErrors(err))
		return
	}
	handleError(c, h.log, err)
}

// loadOwnPost 加载帖子并确认当前用户是作者；否则已写入响应并返回 nil
func (h *PostHandler) loadOwnPost(c *gin.Context) *models.Post {
	id, err := paramID(c, "id")
	if err != nil {
		NotFound(c)
		return nil
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return nil
	}
	if post.UserID != middleware.CurrentUserID(c) {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return nil
	}
	return post
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post := h.loadOwnPost(c)
	if post == nil {
		return
	}

	form := postForm{Text: post.Text}
	if post.GroupID != nil {
		form.GroupID = *post.GroupID
	}
	h.renderForm(c, http.StatusOK, form, post.ID, nil)
}

// Update 仅作者可以编辑，成功后回到详情页
func (h *PostHandler) Update(c *gin.Context) {
	post := h.loadOwnPost(c)
	if post == nil {
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, form, post.ID, formErrors(err))
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		h.formFailure(c, form, post.ID, err)
		return
	}

	_, err = h.posts.Update(c.Request.Context(), post.ID, middleware.CurrentUserID(c), form.input(image))
	if errors.Is(err, services.ErrForbidden) {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return
	}
	if err != nil {
		h.formFailure(c, form, post.ID, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(post.ID))
}

// AddComment 发表评论；空评论不保存，直接回到详情页
func (h *PostHandler) AddComment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		NotFound(c)
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}

	_, err = h.comments.AddComment(c.Request.Context(), id, middleware.CurrentUserID(c), form.Text)
	if err != nil && !services.IsValidation(err) {
		handleError(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(id))
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d", id)
}
