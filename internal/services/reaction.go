package services

import (
	"errors"
	"fmt"
	"hellfire/internal/models"
	"hellfire/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionService struct {
	db *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{db: db}
}

// ToggleLike removes the user's like on a topic if present, otherwise adds it.
// The read-modify-write runs in one transaction and the insert is guarded by
// the (user_id, topic_id) unique index, so concurrent toggles never leave two rows.
func (s *ReactionService) ToggleLike(user *models.User, topicID uint) (models.LikeState, error) {
	if user == nil {
		return models.Unliked, ErrForbidden
	}

	state := models.Unliked
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Topic{}).Where("id = ?", topicID).Count(&count).Error; err != nil {
			return fmt.Errorf("check topic %d: %w", topicID, err)
		}
		if count == 0 {
			return ErrNotFound
		}

		res := tx.Where("user_id = ? AND topic_id = ?", user.ID, topicID).Delete(&models.Like{})
		if res.Error != nil {
			return fmt.Errorf("delete like: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			state = models.Unliked
			return nil
		}

		like := models.Like{UserID: user.ID, TopicID: topicID}
		res = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
			DoNothing: true,
		}).Create(&like)
		if res.Error != nil {
			return fmt.Errorf("create like: %w", res.Error)
		}
		// RowsAffected == 0: a concurrent request inserted the same like first
		state = models.Liked
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Log.Error("Like toggle failed",
				zap.Uint("user_id", user.ID),
				zap.Uint("topic_id", topicID),
				zap.Error(err),
			)
		}
		return models.Unliked, err
	}

	logger.Log.Debug("Like toggled",
		zap.Uint("user_id", user.ID),
		zap.Uint("topic_id", topicID),
		zap.Stringer("state", state),
	)
	return state, nil
}

// IsLiked reports whether userID has liked topicID.
func (s *ReactionService) IsLiked(userID, topicID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Like{}).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return count > 0, nil
}

func (s *ReactionService) LikeCount(topicID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Like{}).Where("topic_id = ?", topicID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
