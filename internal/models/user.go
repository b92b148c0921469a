package models

import (
	"time"
)

const (
	DefaultTheme      = "fire"
	DefaultProfilePic = "default.jpg"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"size:150;not null" json:"-"` // bcrypt hash
	IsAdmin    bool      `gorm:"default:false" json:"is_admin"`
	Theme      string    `gorm:"size:50;default:fire" json:"theme"`
	ProfilePic string    `gorm:"size:150;default:default.jpg" json:"profile_pic"` // file name inside the upload dir
	CreatedAt  time.Time `json:"created_at"`
	// Users are never deleted
}
