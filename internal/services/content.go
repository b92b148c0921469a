package services

import (
	"errors"
	"fmt"
	"hellfire/internal/models"
	"hellfire/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// ListTopics returns every topic, newest first, with comment counts filled in.
func (s *ContentService) ListTopics() ([]models.Topic, error) {
	var topics []models.Topic
	if err := s.db.Order("id DESC").Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	s.fillCommentCounts(topics)
	return topics, nil
}

func (s *ContentService) CreateTopic(user *models.User, title, content string) (*models.Topic, error) {
	if user == nil {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	topic := &models.Topic{
		Title:   title,
		Content: content,
		Author:  user.Username,
	}
	if err := s.db.Create(topic).Error; err != nil {
		logger.Log.Error("Failed to create topic",
			zap.String("author", user.Username),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create topic: %w", err)
	}

	logger.Log.Info("Topic created",
		zap.Uint("topic_id", topic.ID),
		zap.String("author", topic.Author),
	)
	return topic, nil
}

// GetTopic loads a topic with its comments, oldest comment first.
func (s *ContentService) GetTopic(id uint) (*models.Topic, error) {
	var topic models.Topic
	err := s.db.Preload("Comments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).First(&topic, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get topic %d: %w", id, err)
	}
	topic.CommentCount = len(topic.Comments)
	return &topic, nil
}

func (s *ContentService) AddComment(user *models.User, topicID uint, content string) (*models.Comment, error) {
	if user == nil {
		return nil, ErrForbidden
	}
	if err := s.topicExists(topicID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment is empty", ErrValidation)
	}

	comment := &models.Comment{
		TopicID: topicID,
		Content: content,
		Author:  user.Username,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	logger.Log.Info("Comment added",
		zap.Uint("comment_id", comment.ID),
		zap.Uint("topic_id", topicID),
		zap.String("author", comment.Author),
	)
	return comment, nil
}

// DeleteComment removes a comment written by user. Ownership is decided by
// comparing the stored author name with the current username.
func (s *ContentService) DeleteComment(user *models.User, commentID uint) (*models.Comment, error) {
	if user == nil {
		return nil, ErrForbidden
	}

	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get comment %d: %w", commentID, err)
	}

	if comment.Author != user.Username {
		logger.Log.Warn("Comment delete refused",
			zap.Uint("comment_id", commentID),
			zap.String("author", comment.Author),
			zap.String("username", user.Username),
		)
		return &comment, ErrForbidden
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return nil, fmt.Errorf("delete comment %d: %w", commentID, err)
	}

	logger.Log.Info("Comment deleted",
		zap.Uint("comment_id", commentID),
		zap.Uint("topic_id", comment.TopicID),
	)
	return &comment, nil
}

func (s *ContentService) topicExists(id uint) error {
	var count int64
	if err := s.db.Model(&models.Topic{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check topic %d: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// fillCommentCounts sets CommentCount on every topic with one grouped query.
func (s *ContentService) fillCommentCounts(topics []models.Topic) {
	if len(topics) == 0 {
		return
	}

	ids := make([]uint, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}

	type countResult struct {
		TopicID uint
		Count   int
	}
	var results []countResult
	if err := s.db.Model(&models.Comment{}).
		Select("topic_id, COUNT(*) as count").
		Where("topic_id IN ?", ids).
		Group("topic_id").
		Scan(&results).Error; err != nil {
		logger.Log.Warn("Failed to count comments", zap.Error(err))
		return
	}

	counts := make(map[uint]int, len(results))
	for _, r := range results {
		counts[r.TopicID] = r.Count
	}
	for i := range topics {
		topics[i].CommentCount = counts[topics[i].ID]
	}
}
