package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"penhub/internal/services"
	"penhub/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SitemapPostLimit sitemap 中最多列出的帖子数，避免文件过大
const SitemapPostLimit = 500

type SEOHandler struct {
	feed     *services.FeedComposer
	posts    *services.PostService
	siteName string
	siteURL  string
	log      *zap.Logger
}

func NewSEOHandler(d Deps) *SEOHandler {
	return &SEOHandler{feed: d.Feed, posts: d.Posts, siteName: d.SiteName, siteURL: d.SiteURL, log: d.Log}
}

// RobotsTxt 返回 robots.txt 内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 禁止爬取登录注册与发布页面
Disallow: /auth/
Disallow: /create
Disallow: /follow

# Sitemap 位置
Sitemap: %s/sitemap.xml

Crawl-delay: 1
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// SitemapXML 动态生成 sitemap.xml：固定页面、所有分组、最近帖子及其作者主页
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()
	today := now.Format("2006-01-02")

	groups, err := h.posts.Groups(ctx)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	posts, err := h.posts.Recent(ctx, SitemapPostLimit)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	add := func(loc, lastmod, changefreq, priority string) {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + loc,
			LastMod:    lastmod,
			ChangeFreq: changefreq,
			Priority:   priority,
		})
	}

	add("/", today, "hourly", "1.0")
	add("/groups", today, "weekly", "0.8")
	for _, g := range groups {
		add("/group/"+g.Slug, today, "daily", "0.7")
	}

	seen := make(map[uint]bool)
	for _, post := range posts {
		// 越新的帖子优先级越高
		days := now.Sub(post.CreatedAt).Hours() / 24
		changefreq, priority := "weekly", "0.6"
		switch {
		case days < 7:
			changefreq, priority = "daily", "0.8"
		case days < 30:
			priority = "0.7"
		}
		add(fmt.Sprintf("/posts/%d", post.ID), post.UpdatedAt.Format("2006-01-02"), changefreq, priority)

		if !seen[post.UserID] {
			seen[post.UserID] = true
			add("/profile/"+url.PathEscape(post.User.Username), "", "daily", "0.6")
		}
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description rssCDATA `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Category    string   `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate"`
	GUID        rssGUID  `xml:"guid"`
}

type rssCDATA struct {
	Text string `xml:",cdata"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RSSFeed 输出全站 feed 第一页的 RSS 2.0
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	page, err := h.feed.Compose(c.Request.Context(), services.GlobalView(), services.Filter{}, 1)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         h.siteName,
			Link:          h.siteURL,
			Description:   "Latest posts on " + h.siteName,
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}
	for _, post := range page.Posts {
		link := fmt.Sprintf("%s/posts/%d", h.siteURL, post.ID)
		item := rssItem{
			Title:       post.String(),
			Link:        link,
			Description: rssCDATA{Text: string(views.RenderMarkdown(post.Text))},
			Author:      post.User.DisplayName(),
			PubDate:     post.CreatedAt.Format(time.RFC1123Z),
			GUID:        rssGUID{IsPermaLink: true, Value: link},
		}
		if post.Group != nil {
			item.Category = post.Group.Title
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", append([]byte(xml.Header), out...))
}
