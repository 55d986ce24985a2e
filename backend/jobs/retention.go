// Package jobs holds the background maintenance work the server schedules
// alongside the HTTP listener.
package jobs

import (
	"log"
	"time"

	"littlesteps/backend/config"
	"littlesteps/backend/models"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// StartRetentionSweeper schedules a daily sweep that deletes anonymous
// device-scoped progress rows untouched for cfg.RetentionDays. Device rows
// are only ever folded into an account at sign-in, so rows this old belong
// to devices that never signed in and never will. Account-scoped rows are
// never touched.
func StartRetentionSweeper(db *gorm.DB, cfg *config.Config, logger *log.Logger) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)

	scheduler.Every(1).Day().At("03:00").Do(func() {
		SweepStaleDeviceProgress(db, cfg.RetentionDays, logger)
	})

	scheduler.StartAsync()
	return scheduler
}

// SweepStaleDeviceProgress runs one sweep and reports what it removed.
func SweepStaleDeviceProgress(db *gorm.DB, retentionDays int, logger *log.Logger) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := db.Where("user_id = 0 AND device_id <> '' AND updated_at < ?", cutoff).
		Delete(&models.ProgressRecord{})
	if result.Error != nil {
		logger.Printf("retention sweep: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Printf("retention sweep: removed %d stale device progress rows", result.RowsAffected)
	}
}
