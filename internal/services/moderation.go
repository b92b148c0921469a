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

type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// checkAdmin is the capability gate for every moderation operation.
func checkAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// ListAll returns all users and all topics for the admin dashboard.
func (s *ModerationService) ListAll(user *models.User) ([]models.User, []models.Topic, error) {
	if err := checkAdmin(user); err != nil {
		return nil, nil, err
	}

	var users []models.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}
	var topics []models.Topic
	if err := s.db.Order("id ASC").Find(&topics).Error; err != nil {
		return nil, nil, fmt.Errorf("list topics: %w", err)
	}
	return users, topics, nil
}

// TopicForEdit loads a topic for the admin edit form.
func (s *ModerationService) TopicForEdit(user *models.User, topicID uint) (*models.Topic, error) {
	if err := checkAdmin(user); err != nil {
		return nil, err
	}
	return s.findTopic(s.db, topicID)
}

// DeleteTopic removes a topic together with its likes and comments, all or nothing.
func (s *ModerationService) DeleteTopic(user *models.User, topicID uint) error {
	if err := checkAdmin(user); err != nil {
		logModerationRefused(user, "delete_topic", topicID)
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		topic, err := s.findTopic(tx, topicID)
		if err != nil {
			return err
		}
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Delete(topic).Error; err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Topic deleted by admin",
		zap.Uint("topic_id", topicID),
		zap.String("admin", user.Username),
	)
	return nil
}

// EditTopic overwrites title and content.
func (s *ModerationService) EditTopic(user *models.User, topicID uint, title, content string) error {
	if err := checkAdmin(user); err != nil {
		logModerationRefused(user, "edit_topic", topicID)
		return err
	}

	topic, err := s.findTopic(s.db, topicID)
	if err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	err = s.db.Model(topic).Updates(map[string]interface{}{
		"title":   title,
		"content": content,
	}).Error
	if err != nil {
		return fmt.Errorf("update topic %d: %w", topicID, err)
	}

	logger.Log.Info("Topic edited by admin",
		zap.Uint("topic_id", topicID),
		zap.String("admin", user.Username),
	)
	return nil
}

func (s *ModerationService) findTopic(tx *gorm.DB, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := tx.First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get topic %d: %w", id, err)
	}
	return &topic, nil
}

func logModerationRefused(user *models.User, action string, topicID uint) {
	username := ""
	if user != nil {
		username = user.Username
	}
	logger.Log.Warn("Moderation refused",
		zap.String("action", action),
		zap.Uint("topic_id", topicID),
		zap.String("username", username),
	)
}
