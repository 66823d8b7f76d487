package views

import (
	"strings"
	"testing"
	"time"

	"penhub/internal/models"
	"penhub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistersAllViews(t *testing.T) {
	r, err := New("PenHub")
	require.NoError(t, err)

	for _, name := range []string{
		"posts/index.html",
		"posts/index_feed.html",
		"posts/group_list.html",
		"posts/groups.html",
		"posts/profile.html",
		"posts/post_detail.html",
		"posts/create_post.html",
		"posts/follow.html",
		"posts/search.html",
		"auth/login.html",
		"auth/signup.html",
		"core/404.html",
		"core/error.html",
	} {
		assert.True(t, r.Has(name), name)
	}
}

func TestBytesRendersFeedFragment(t *testing.T) {
	r, err := New("PenHub")
	require.NoError(t, err)

	page := &services.FeedPage{
		Number:     2,
		TotalPages: 3,
		Posts: []models.Post{{
			ID:           7,
			Text:         "**bold** words",
			User:         models.User{Username: "alice"},
			Group:        &models.Group{Title: "Cats", Slug: "cats"},
			CreatedAt:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			CommentCount: 4,
		}},
	}

	out, err := r.Bytes("posts/index_feed.html", map[string]any{"Page": page})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, `href="/profile/alice"`)
	assert.Contains(t, html, `href="/group/cats"`)
	assert.Contains(t, html, "01 Mar 2024 09:30")
	assert.Contains(t, html, "4 comments")
	assert.Contains(t, html, `href="/?page=3"`)
	assert.Contains(t, html, `href="/"`)
	assert.NotContains(t, html, "<html")
}

func TestBytesUnknownTemplate(t *testing.T) {
	r, err := New("PenHub")
	require.NoError(t, err)

	_, err = r.Bytes("nope.html", nil)
	assert.Error(t, err)
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("hello <script>alert(1)</script>\n\n![cat](https://example.com/cat.png)"))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, "hello")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "/", pageURL("/", "", 1))
	assert.Equal(t, "/group/cats?page=2", pageURL("/group/cats", "", 2))
	assert.Equal(t, "/search?q=go&page=1", pageURL("/search", "q=go&", 1))

	assert.Equal(t, "abc…", excerpt("abcdef", 3))
	assert.Equal(t, "a b", excerpt("a \n b", 10))

	assert.Equal(t, "just now", timeAgo(time.Now()))
	assert.Equal(t, "2 hours ago", timeAgo(time.Now().Add(-2*time.Hour-time.Minute)))
	assert.True(t, strings.HasSuffix(timeAgo(time.Now().Add(-400*24*time.Hour)), "year ago"))

	_, err := dict("odd")
	assert.Error(t, err)
}
