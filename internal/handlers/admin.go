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

const adminOnlyMessage = "This page is for admins only!"

type AdminHandler struct {
	moderation *services.ModerationService
}

func NewAdminHandler(moderation *services.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

// Dashboard lists every user and topic.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	users, topics, err := h.moderation.ListAll(middleware.CurrentUser(c))
	if err != nil {
		h.fail(c, err, "Could not load the dashboard.")
		return
	}

	Render(c, http.StatusOK, "admin.html", gin.H{
		"Title":  "Admin",
		"Users":  users,
		"Topics": topics,
	})
}

func (h *AdminHandler) DeleteTopic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.moderation.DeleteTopic(middleware.CurrentUser(c), id); err != nil {
		h.fail(c, err, "Could not delete the topic.")
		return
	}
	Redirect(c, "/admin", "Topic deleted.")
}

func (h *AdminHandler) ShowEdit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	topic, err := h.moderation.TopicForEdit(middleware.CurrentUser(c), id)
	if err != nil {
		h.fail(c, err, "Could not load the topic.")
		return
	}

	Render(c, http.StatusOK, "edit_topic.html", gin.H{
		"Title": "Edit topic",
		"Topic": topic,
	})
}

func (h *AdminHandler) Edit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.moderation.EditTopic(middleware.CurrentUser(c), id, c.PostForm("title"), c.PostForm("content"))
	if errors.Is(err, services.ErrValidation) {
		Redirect(c, "/admin/edit_topic/"+c.Param("id"), "Title and content cannot be empty.")
		return
	}
	if err != nil {
		h.fail(c, err, "Could not update the topic.")
		return
	}
	Redirect(c, "/admin", "Topic updated.")
}

// fail turns a moderation error into a redirect. Non-admins are sent home.
func (h *AdminHandler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		Redirect(c, "/", adminOnlyMessage)
	case errors.Is(err, services.ErrNotFound):
		Redirect(c, "/admin", "Topic not found.")
	default:
		logger.Log.Error("Moderation request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		Redirect(c, "/admin", message)
	}
}
