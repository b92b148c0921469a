package services

import (
	"errors"
	"fmt"
	"hellfire/internal/models"
	"hellfire/internal/utils"
	"hellfire/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a user with a hashed password.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	start := time.Now()
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	existing, err := s.findByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Username already exists", zap.String("username", username))
		return nil, ErrDuplicateUsername
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:   username,
		Password:   hash,
		Theme:      models.DefaultTheme,
		ProfilePic: models.DefaultProfilePic,
	}
	if err := s.db.Create(user).Error; err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		logger.Log.Error("Failed to create user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.Duration("duration", time.Since(start)),
	)
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.findByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("username", username),
			zap.Uint("user_id", user.ID),
		)
		return nil, ErrInvalidCredentials
	}

	logger.Log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return user, nil
}

// CurrentUser resolves the user id held by a session.
func (s *AuthService) CurrentUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return &user, nil
}

func (s *AuthService) findByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}

// EnsureAdmin promotes username to admin, registering it first when missing.
func (s *AuthService) EnsureAdmin(username, password string) (*models.User, bool, error) {
	user, err := s.findByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, false, err
	}

	created := false
	if user == nil {
		if user, err = s.Register(username, password); err != nil {
			return nil, false, err
		}
		created = true
	}

	if !user.IsAdmin {
		if err := s.db.Model(user).Update("is_admin", true).Error; err != nil {
			return nil, created, fmt.Errorf("promote %q: %w", user.Username, err)
		}
		user.IsAdmin = true
		logger.Log.Info("User promoted to admin", zap.String("username", user.Username))
	}
	return user, created, nil
}
