package handlers

import (
	"time"

	"penhub/internal/cache"
	"penhub/internal/services"
	"penhub/internal/views"

	"go.uber.org/zap"
)

// Deps 由 main 组装后注入各个 handler
type Deps struct {
	Feed     *services.FeedComposer
	Follows  *services.FollowGraph
	Posts    *services.PostService
	Comments *services.CommentService
	Auth     *services.AuthService
	Media    services.MediaStore

	PageCache cache.PageCache
	CacheTTL  time.Duration

	SiteName string
	SiteURL  string

	Views *views.Renderer
	Log   *zap.Logger
}
