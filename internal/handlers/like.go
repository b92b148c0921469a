package handlers

import (
	"errors"
	"hellfire/internal/middleware"
	"hellfire/internal/models"
	"hellfire/internal/services"
	"hellfire/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LikeHandler struct {
	reactions *services.ReactionService
}

func NewLikeHandler(reactions *services.ReactionService) *LikeHandler {
	return &LikeHandler{reactions: reactions}
}

// Toggle likes or unlikes a topic for the current user.
func (h *LikeHandler) Toggle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	state, err := h.reactions.ToggleLike(middleware.CurrentUser(c), id)
	switch {
	case err == nil && state == models.Liked:
		Redirect(c, topicPath(id), "You liked this topic.")
	case err == nil:
		Redirect(c, topicPath(id), "Like removed.")
	case errors.Is(err, services.ErrNotFound):
		Redirect(c, "/", "Topic not found.")
	default:
		logger.Log.Error("Failed to toggle like", zap.Uint("topic_id", id), zap.Error(err))
		Redirect(c, topicPath(id), "Could not update your like.")
	}
}
