package handlers

import (
	"errors"
	"hellfire/internal/middleware"
	"hellfire/internal/services"
	"hellfire/internal/utils"
	"hellfire/pkg/logger"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TopicHandler struct {
	content   *services.ContentService
	reactions *services.ReactionService
}

func NewTopicHandler(content *services.ContentService, reactions *services.ReactionService) *TopicHandler {
	return &TopicHandler{content: content, reactions: reactions}
}

func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.content.ListTopics()
	if err != nil {
		logger.Log.Error("Failed to list topics", zap.Error(err))
		RenderError(c, http.StatusInternalServerError, "Could not load topics.")
		return
	}

	Render(c, http.StatusOK, "index.html", gin.H{
		"Title":  "Topics",
		"Topics": topics,
	})
}

func (h *TopicHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "create.html", gin.H{"Title": "New topic"})
}

func (h *TopicHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	_, err := h.content.CreateTopic(user, c.PostForm("title"), c.PostForm("content"))
	switch {
	case err == nil:
		Redirect(c, "/", "Topic created.")
	case errors.Is(err, services.ErrValidation):
		Redirect(c, "/create", "Title and content cannot be empty.")
	default:
		logger.Log.Error("Failed to create topic", zap.Error(err))
		Redirect(c, "/create", "Could not create the topic.")
	}
}

type commentView struct {
	ID          uint
	Author      string
	ContentHTML template.HTML
	CanDelete   bool
}

func (h *TopicHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	topic, err := h.content.GetTopic(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Topic not found.")
			return
		}
		logger.Log.Error("Failed to load topic", zap.Uint("topic_id", id), zap.Error(err))
		RenderError(c, http.StatusInternalServerError, "Could not load the topic.")
		return
	}

	user := middleware.CurrentUser(c)

	liked := false
	if user != nil {
		if liked, err = h.reactions.IsLiked(user.ID, topic.ID); err != nil {
			logger.Log.Warn("Failed to read like state", zap.Error(err))
		}
	}
	likeCount, err := h.reactions.LikeCount(topic.ID)
	if err != nil {
		logger.Log.Warn("Failed to count likes", zap.Error(err))
	}

	comments := make([]commentView, len(topic.Comments))
	for i, com := range topic.Comments {
		comments[i] = commentView{
			ID:          com.ID,
			Author:      com.Author,
			ContentHTML: utils.RenderMarkdown(com.Content),
			CanDelete:   user != nil && user.Username == com.Author,
		}
	}

	Render(c, http.StatusOK, "topic.html", gin.H{
		"Title":       topic.Title,
		"Topic":       topic,
		"ContentHTML": utils.RenderMarkdown(topic.Content),
		"Comments":    comments,
		"Liked":       liked,
		"LikeCount":   likeCount,
	})
}

func (h *TopicHandler) CreateComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	_, err := h.content.AddComment(user, id, c.PostForm("content"))
	switch {
	case err == nil:
		Redirect(c, topicPath(id), "Comment added.")
	case errors.Is(err, services.ErrNotFound):
		Redirect(c, "/", "Topic not found.")
	case errors.Is(err, services.ErrValidation):
		Redirect(c, topicPath(id), "Comment cannot be empty.")
	default:
		logger.Log.Error("Failed to add comment", zap.Uint("topic_id", id), zap.Error(err))
		Redirect(c, topicPath(id), "Could not add the comment.")
	}
}

func (h *TopicHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	comment, err := h.content.DeleteComment(user, id)
	switch {
	case err == nil:
		Redirect(c, topicPath(comment.TopicID), "Comment deleted!")
	case errors.Is(err, services.ErrForbidden) && comment != nil:
		Redirect(c, topicPath(comment.TopicID), "Only the author can delete this comment!")
	case errors.Is(err, services.ErrNotFound):
		Redirect(c, "/", "Comment not found.")
	default:
		logger.Log.Error("Failed to delete comment", zap.Uint("comment_id", id), zap.Error(err))
		Redirect(c, "/", "Could not delete the comment.")
	}
}
