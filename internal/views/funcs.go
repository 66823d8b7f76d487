package views

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

func FuncMap(siteName string) template.FuncMap {
	return template.FuncMap{
		"siteName": func() string { return siteName },
		"dict":     dict,
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo":  timeAgo,
		"markdown": RenderMarkdown,
		"excerpt":  excerpt,
		"pageURL":  pageURL,
	}
}

func dict(values ...interface{}) (map[string]interface{}, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call")
	}
	d := make(map[string]interface{}, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		d[key] = values[i+1]
	}
	return d, nil
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// excerpt 截取前 n 个字符用于 meta 描述
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

// pageURL 生成分页链接，query 形如 "q=go&"
func pageURL(path, query string, n int) string {
	if n <= 1 && query == "" {
		return path
	}
	return fmt.Sprintf("%s?%spage=%d", path, query, n)
}
