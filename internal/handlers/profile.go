package handlers

import (
	"errors"
	"hellfire/internal/middleware"
	"hellfire/internal/services"
	"hellfire/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Show(c *gin.Context) {
	username := c.Param("username")

	user, topics, err := h.profiles.GetProfile(username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "User not found.")
			return
		}
		logger.Log.Error("Failed to load profile", zap.String("username", username), zap.Error(err))
		RenderError(c, http.StatusInternalServerError, "Could not load the profile.")
		return
	}

	current := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "profile.html", gin.H{
		"Title":   user.Username,
		"Profile": user,
		"Topics":  topics,
		"IsOwner": current != nil && current.Username == user.Username,
	})
}

// UpdatePicture replaces the profile picture. Requests from anyone but the
// owner, or without a file, change nothing and just land back on the profile.
func (h *ProfileHandler) UpdatePicture(c *gin.Context) {
	username := c.Param("username")
	back := profilePath(username)

	fileHeader, err := c.FormFile("profile_pic")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			Redirect(c, back, "Profile picture is too large.")
		case errors.Is(err, http.ErrMissingFile):
			Redirect(c, back, "")
		default:
			logger.Log.Warn("Failed to read upload form", zap.String("username", username), zap.Error(err))
			Redirect(c, back, "Could not read the uploaded file.")
		}
		return
	}
	if fileHeader.Filename == "" {
		Redirect(c, back, "")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Log.Warn("Failed to open uploaded file", zap.Error(err))
		Redirect(c, back, "Could not read the uploaded file.")
		return
	}
	defer file.Close()

	err = h.profiles.UpdateProfilePicture(middleware.CurrentUser(c), username, fileHeader.Filename, file)
	switch {
	case err == nil:
		Redirect(c, back, "Profile picture updated!")
	case errors.Is(err, services.ErrForbidden):
		Redirect(c, back, "")
	case errors.Is(err, services.ErrValidation):
		Redirect(c, back, "Please upload a valid image file.")
	default:
		logger.Log.Error("Failed to update profile picture", zap.String("username", username), zap.Error(err))
		Redirect(c, back, "Could not update the profile picture.")
	}
}

func (h *ProfileHandler) SetTheme(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.profiles.SetTheme(user, c.PostForm("theme")); err != nil {
		logger.Log.Error("Failed to set theme", zap.String("username", user.Username), zap.Error(err))
		Redirect(c, profilePath(user.Username), "Could not update the theme.")
		return
	}
	Redirect(c, profilePath(user.Username), "Theme updated!")
}
