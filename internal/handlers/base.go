package handlers

import (
	"errors"
	"net/http"
	"penhub/internal/middleware"
	"penhub/internal/services"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError 渲染通用错误页
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "core/error.html", gin.H{"Error": message})
}

// NotFound 渲染 404 页面，同时作为 NoRoute handler
func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "core/404.html", nil)
}

// handleError 把 service 层错误映射为 HTTP 响应
func handleError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFound(c)
	case errors.Is(err, services.ErrUnauthenticated):
		c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
	default:
		log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again later.")
	}
}

// paramID 解析路径中的数字 ID，非法时返回 ErrNotFound
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, services.ErrNotFound
	}
	return uint(id), nil
}

// formErrors 把绑定/校验错误整理为 字段 -> 提示
func formErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	var ve *services.ValidationError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			out[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
	case errors.As(err, &ve):
		out[ve.Field] = ve.Message
	default:
		out["form"] = err.Error()
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	}
	return "is invalid"
}

// safeNext 只允许站内跳转
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
