package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"penhub/web"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin/render"
)

const viewsDir = "templates/views"

// Renderer 持有全部页面模板，既供 gin 渲染 HTML，也可渲染为字节供页面缓存使用
type Renderer struct {
	templates multitemplate.Render
}

// New 从嵌入的 web 模板构建 Renderer
func New(siteName string) (*Renderer, error) {
	return NewFromFS(web.Templates, siteName)
}

// NewFromFS 每个 views/ 下的页面与 layouts、includes 组成独立的模板集合，
// 以相对 views/ 的路径（如 "posts/index.html"）注册。
func NewFromFS(fsys fs.FS, siteName string) (*Renderer, error) {
	layouts, err := fs.Glob(fsys, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	includes, err := fs.Glob(fsys, "templates/includes/*.html")
	if err != nil {
		return nil, err
	}

	shared := make([]string, 0, len(layouts)+len(includes))
	shared = append(shared, layouts...)
	shared = append(shared, includes...)

	funcs := FuncMap(siteName)
	r := multitemplate.New()

	err = fs.WalkDir(fsys, viewsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}

		files := append(append([]string{}, shared...), p)
		tmpl, err := template.New(path.Base(p)).Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		r.Add(strings.TrimPrefix(p, viewsDir+"/"), tmpl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: r}, nil
}

// HTMLRender 供 gin.Engine.HTMLRender 使用
func (r *Renderer) HTMLRender() render.HTMLRender {
	return r.templates
}

func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Bytes 把模板渲染为字节
func (r *Renderer) Bytes(name string, data any) ([]byte, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
