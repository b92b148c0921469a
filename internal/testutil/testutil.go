package testutil

import (
	"fmt"
	"strings"
	"testing"

	"hellfire/internal/db"
	"hellfire/internal/models"
	"hellfire/internal/utils"

	"gorm.io/gorm"
)

// SetupTestDatabase creates a migrated in-memory SQLite database private to t.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying DB: %v", err)
	}
	// one connection keeps the in-memory database alive and avoids table locks
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Logf("Warning: Failed to close database: %v", err)
		}
	})
	return conn
}

// CreateTestUser inserts a user with a hashed password.
func CreateTestUser(t *testing.T, conn *gorm.DB, username, password string, admin bool) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Username:   username,
		Password:   hash,
		IsAdmin:    admin,
		Theme:      models.DefaultTheme,
		ProfilePic: models.DefaultProfilePic,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestTopic inserts a topic authored by username.
func CreateTestTopic(t *testing.T, conn *gorm.DB, author, title, content string) *models.Topic {
	t.Helper()

	topic := &models.Topic{Title: title, Content: content, Author: author}
	if err := conn.Create(topic).Error; err != nil {
		t.Fatalf("Failed to create topic: %v", err)
	}
	return topic
}

// CreateTestComment inserts a comment on topicID.
func CreateTestComment(t *testing.T, conn *gorm.DB, topicID uint, author, content string) *models.Comment {
	t.Helper()

	comment := &models.Comment{TopicID: topicID, Author: author, Content: content}
	if err := conn.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	return comment
}
