package services

import (
	"errors"
	"fmt"
	"hellfire/internal/models"
	"hellfire/internal/storage"
	"hellfire/pkg/logger"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileService struct {
	db      *gorm.DB
	uploads *storage.Store
}

func NewProfileService(db *gorm.DB, uploads *storage.Store) *ProfileService {
	return &ProfileService{db: db, uploads: uploads}
}

// GetProfile returns the user and the topics authored under that username.
func (s *ProfileService) GetProfile(username string) (*models.User, []models.Topic, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get profile %q: %w", username, err)
	}

	var topics []models.Topic
	if err := s.db.Where("author = ?", username).Order("id ASC").Find(&topics).Error; err != nil {
		return nil, nil, fmt.Errorf("topics by %q: %w", username, err)
	}
	return &user, topics, nil
}

// UpdateProfilePicture stores an uploaded image for username and records it
// on the user. Only the user themself may do this; anyone else gets
// ErrForbidden and nothing changes. The file is written before the row is
// updated, so the row never points at a partial file.
func (s *ProfileService) UpdateProfilePicture(user *models.User, username, filename string, file io.Reader) error {
	if user == nil || user.Username != username {
		return ErrForbidden
	}

	stored, err := s.uploads.SaveImage(filename, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidName),
			errors.Is(err, storage.ErrNotImage),
			errors.Is(err, storage.ErrTooLarge):
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		logger.Log.Error("Failed to store profile picture",
			zap.String("username", username),
			zap.Error(err),
		)
		return err
	}

	if err := s.db.Model(user).Update("profile_pic", stored).Error; err != nil {
		return fmt.Errorf("save profile picture: %w", err)
	}
	user.ProfilePic = stored

	logger.Log.Info("Profile picture updated",
		zap.String("username", username),
		zap.String("file", stored),
	)
	return nil
}

// SetTheme stores any theme name as given.
func (s *ProfileService) SetTheme(user *models.User, theme string) error {
	if user == nil {
		return ErrForbidden
	}
	if err := s.db.Model(user).Update("theme", theme).Error; err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	user.Theme = theme
	return nil
}
