package router

import (
	"io/fs"
	"net/http"

	"penhub/internal/handlers"
	"penhub/internal/middleware"
	"penhub/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const SessionName = "penhub_session"

type Options struct {
	SiteName      string
	SessionSecret string
	MediaRoot     string
	MediaURL      string
}

// New 创建 gin.Engine：中间件、模板、静态资源与全部路由
func New(d handlers.Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(SessionName, store))

	r.HTMLRender = d.Views.HTMLRender()

	if static, err := fs.Sub(web.Static, "static"); err == nil {
		r.StaticFS("/static", http.FS(static))
	}
	if opts.MediaURL != "" && opts.MediaRoot != "" {
		media := r.Group(opts.MediaURL, middleware.HotlinkGuard(opts.SiteName))
		media.Static("/", opts.MediaRoot)
	}

	r.Use(middleware.LoadUser(d.Auth))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d handlers.Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler(d)
	postHandler := handlers.NewPostHandler(d)
	profileHandler := handlers.NewProfileHandler(d)
	groupHandler := handlers.NewGroupHandler(d)
	seoHandler := handlers.NewSEOHandler(d)

	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Index)                       // 首页 - 全站最新（页面缓存）
	r.GET("/search", postHandler.Search)                // 搜索
	r.GET("/groups", groupHandler.ListGroups)           // 所有分组
	r.GET("/group/:slug", postHandler.GroupPosts)       // 分组下的帖子
	r.GET("/profile/:username", profileHandler.Profile) // 作者主页
	r.GET("/posts/:id", postHandler.Detail)             // 帖子详情
	r.GET("/robots.txt", seoHandler.RobotsTxt)          // robots.txt
	r.GET("/sitemap.xml", seoHandler.SitemapXML)        // 站点地图
	r.GET("/feed.xml", seoHandler.RSSFeed)              // RSS 订阅

	r.GET("/auth/signup", authHandler.ShowSignup) // 注册页面
	r.POST("/auth/signup", authHandler.Signup)    // 提交注册
	r.GET("/auth/login", authHandler.ShowLogin)   // 登录页面
	r.POST("/auth/login", authHandler.Login)      // 提交登录
	r.GET("/auth/logout", authHandler.Logout)     // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create", postHandler.ShowCreate)                       // 发布帖子页面
		authorized.POST("/create", postHandler.Create)                          // 提交发布
		authorized.GET("/posts/:id/edit", postHandler.ShowEdit)                 // 编辑页面
		authorized.POST("/posts/:id/edit", postHandler.Update)                  // 提交编辑
		authorized.POST("/posts/:id/comment", postHandler.AddComment)           // 发表评论
		authorized.GET("/follow", profileHandler.FollowIndex)                   // 关注的作者的帖子
		authorized.POST("/profile/:username/follow", profileHandler.Follow)     // 关注
		authorized.POST("/profile/:username/unfollow", profileHandler.Unfollow) // 取消关注
	}

	r.NoRoute(handlers.NotFound)
}
