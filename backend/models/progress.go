package models

import "time"

// ProgressRecord is one exercise counter. Exactly one of UserID/DeviceID is
// set (the other stays at its zero value); the compound unique index is the
// conflict key the upsert relies on. No soft delete here: merged device rows
// must actually disappear so a later upsert can recreate the key cleanly.
type ProgressRecord struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       uint   `gorm:"uniqueIndex:idx_progress_owner_key"`
	DeviceID     string `gorm:"uniqueIndex:idx_progress_owner_key;size:64"`
	Module       string `gorm:"uniqueIndex:idx_progress_owner_key;size:32;not null"`
	ExerciseType string `gorm:"uniqueIndex:idx_progress_owner_key;size:64;not null"`
	Value        int    `gorm:"not null;default:0"`
}
