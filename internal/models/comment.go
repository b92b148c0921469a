package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TopicID   uint      `gorm:"not null;index" json:"topic_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    string    `gorm:"size:150;not null" json:"author"` // username copy, compared on delete
	CreatedAt time.Time `json:"created_at"`
}
