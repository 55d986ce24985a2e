package progress

import (
	"errors"
	"fmt"

	"littlesteps/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one progress counter owned by a device or a user.
type Record struct {
	Module       string `json:"module"`
	ExerciseType string `json:"exercise_type"`
	Value        int    `json:"value"`
}

// Store is the persistence boundary for progress counters. Every call is a
// round trip; errors are returned as-is and retrying is up to the caller.
type Store interface {
	// FetchAll returns every record for the owner. No records is not an error.
	FetchAll(owner Owner) ([]Record, error)
	// Get returns the owner's record for one key, or nil if absent.
	Get(owner Owner, module, exerciseType string) (*Record, error)
	// Upsert creates the record or overwrites its value, last write wins.
	Upsert(owner Owner, module, exerciseType string, value int) error
	// DeleteAll removes every record for the owner.
	DeleteAll(owner Owner) error
}

// GormStore implements Store on the progress_records table. The device/user
// split is stored as two columns with zero values for the absent side, which
// keeps the compound unique index usable as the upsert conflict key.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

var conflictColumns = []clause.Column{
	{Name: "user_id"}, {Name: "device_id"}, {Name: "module"}, {Name: "exercise_type"},
}

func ownerFilter(owner Owner) map[string]interface{} {
	if owner.IsUser() {
		return map[string]interface{}{"user_id": owner.UserID(), "device_id": ""}
	}
	return map[string]interface{}{"user_id": uint(0), "device_id": owner.DeviceID()}
}

func (s *GormStore) FetchAll(owner Owner) ([]Record, error) {
	var rows []models.ProgressRecord
	if err := s.DB.Where(ownerFilter(owner)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch progress for %s: %w", owner, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			Module:       row.Module,
			ExerciseType: row.ExerciseType,
			Value:        row.Value,
		})
	}
	return records, nil
}

func (s *GormStore) Get(owner Owner, module, exerciseType string) (*Record, error) {
	var row models.ProgressRecord
	err := s.DB.Where(ownerFilter(owner)).
		Where("module = ? AND exercise_type = ?", module, exerciseType).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %s/%s for %s: %w", module, exerciseType, owner, err)
	}
	return &Record{Module: row.Module, ExerciseType: row.ExerciseType, Value: row.Value}, nil
}

func (s *GormStore) Upsert(owner Owner, module, exerciseType string, value int) error {
	row := models.ProgressRecord{
		UserID:       owner.UserID(),
		DeviceID:     owner.DeviceID(),
		Module:       module,
		ExerciseType: exerciseType,
		Value:        value,
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns:   conflictColumns,
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert progress %s/%s for %s: %w", module, exerciseType, owner, err)
	}
	return nil
}

func (s *GormStore) DeleteAll(owner Owner) error {
	if err := s.DB.Where(ownerFilter(owner)).Delete(&models.ProgressRecord{}).Error; err != nil {
		return fmt.Errorf("delete progress for %s: %w", owner, err)
	}
	return nil
}
