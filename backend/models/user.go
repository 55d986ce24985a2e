package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Language     string `gorm:"default:en"` // UI language of the child's profile
	StreakDays   int    `gorm:"default:0"`
	LastActive   time.Time
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
