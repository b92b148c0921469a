package handlers

import (
	"errors"
	"hellfire/internal/middleware"
	"hellfire/internal/services"
	"hellfire/pkg/logger"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := h.auth.Register(username, password)
	switch {
	case err == nil:
		Redirect(c, "/login", "Registration successful! You can log in now.")
	case errors.Is(err, services.ErrDuplicateUsername):
		Redirect(c, "/register", "This username is already taken.")
	case errors.Is(err, services.ErrValidation):
		Redirect(c, "/register", "Username and password are required.")
	default:
		logger.Log.Error("Registration failed", zap.String("username", username), zap.Error(err))
		Redirect(c, "/register", "Registration failed, please try again.")
	}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.auth.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			logger.Log.Error("Login failed", zap.String("username", username), zap.Error(err))
		}
		Redirect(c, "/login", "Wrong username or password.")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()

	Redirect(c, "/", "Logged in!")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	Redirect(c, "/", "Logged out.")
}
