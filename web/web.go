// Package web 嵌入 HTML 模板与静态资源
package web

import "embed"

//go:embed templates
var Templates embed.FS

//go:embed static
var Static embed.FS
