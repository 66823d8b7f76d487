package handlers

import (
	"errors"
	"net/http"

	"penhub/internal/middleware"
	"penhub/internal/models"
	"penhub/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthHandler(d Deps) *AuthHandler {
	return &AuthHandler{auth: d.Auth, log: d.Log}
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type signupForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Name     string `form:"name" binding:"max=150"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Next": c.Query("next")})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{
			"Error": "Please enter username and password", "Username": form.Username, "Next": form.Next,
		})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Error": "Invalid username or password", "Username": form.Username, "Next": form.Next,
		})
		return
	}
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", nil)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{
			"Error": "Username and password are required", "Username": form.Username, "Name": form.Name,
		})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), form.Username, form.Name, form.Password)
	if err != nil {
		code, msg := http.StatusBadRequest, ""
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			msg = ve.Field + ": " + ve.Message
		case errors.Is(err, services.ErrUsernameTaken):
			code, msg = http.StatusConflict, "This username is already taken"
		default:
			handleError(c, h.log, err)
			return
		}
		Render(c, code, "auth/signup.html", gin.H{"Error": msg, "Username": form.Username, "Name": form.Name})
		return
	}

	if err := h.startSession(c, user); err != nil {
		handleError(c, h.log, err)
		return
	}
	h.log.Info("user signed up", zap.String("username", user.Username))
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	return session.Save()
}
