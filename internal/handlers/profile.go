package handlers

import (
	"errors"
	"net/http"

	"penhub/internal/middleware"
	"penhub/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	feed    *services.FeedComposer
	follows *services.FollowGraph
	log     *zap.Logger
}

func NewProfileHandler(d Deps) *ProfileHandler {
	return &ProfileHandler{feed: d.Feed, follows: d.Follows, log: d.Log}
}

// Profile 作者主页：作者的帖子、关注数据以及当前用户是否已关注
func (h *ProfileHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	feed, err := h.feed.Compose(ctx, services.AuthorView(c.Param("username")),
		services.Filter{}, services.ParsePage(c.Query("page")))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	following, err := h.follows.IsFollowing(ctx, middleware.CurrentUserID(c), feed.Author.ID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	counts, err := h.follows.Counts(ctx, feed.Author.ID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Author":    feed.Author,
		"Page":      feed,
		"Following": following,
		"Counts":    counts,
	})
}

// FollowIndex 关注的作者发布的帖子
func (h *ProfileHandler) FollowIndex(c *gin.Context) {
	feed, err := h.feed.Compose(c.Request.Context(), services.FollowView(middleware.CurrentUserID(c)),
		services.Filter{}, services.ParsePage(c.Query("page")))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "posts/follow.html", gin.H{"Page": feed})
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	err := h.follows.FollowUsername(c.Request.Context(), middleware.CurrentUserID(c), username)
	h.afterFollowChange(c, username, err)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	err := h.follows.UnfollowUsername(c.Request.Context(), middleware.CurrentUserID(c), username)
	h.afterFollowChange(c, username, err)
}

// afterFollowChange 关注自己被静默忽略，其余情况回到作者主页
func (h *ProfileHandler) afterFollowChange(c *gin.Context, username string, err error) {
	if err != nil && !errors.Is(err, services.ErrSelfFollow) {
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username)
}
