package models

import (
	"time"
)

// Like marks a user's like on a topic. One row per (user, topic).
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_topic" json:"user_id"`
	TopicID   uint      `gorm:"not null;index;uniqueIndex:idx_like_user_topic" json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeState is the outcome of a toggle.
type LikeState int

const (
	Unliked LikeState = iota
	Liked
)

func (s LikeState) String() string {
	if s == Liked {
		return "liked"
	}
	return "unliked"
}
