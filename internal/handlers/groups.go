package handlers

import (
	"net/http"

	"penhub/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

func NewGroupHandler(d Deps) *GroupHandler {
	return &GroupHandler{posts: d.Posts, log: d.Log}
}

// ListGroups 展示所有分组
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.posts.Groups(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "posts/groups.html", gin.H{
		"Groups": groups,
	})
}
