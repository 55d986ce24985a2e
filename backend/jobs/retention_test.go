package jobs

import (
	"fmt"
	"testing"
	"time"

	"littlesteps/backend/models"
	"littlesteps/backend/progress"
	"littlesteps/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSweepStaleDeviceProgress(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProgressRecord{}))

	store := progress.NewGormStore(db)
	staleDevice := progress.DeviceOwner("7b0d2f8e-1c4a-4f7b-9a6d-3e5c8b1a2d4f")
	freshDevice := progress.DeviceOwner("11111111-2222-3333-4444-555555555555")
	user := progress.UserOwner(1)

	require.NoError(t, store.Upsert(staleDevice, "math", "addition", 7))
	require.NoError(t, store.Upsert(freshDevice, "math", "addition", 2))
	require.NoError(t, store.Upsert(user, "math", "addition", 4))

	// Age the stale device's row past the retention window.
	old := time.Now().AddDate(0, 0, -200)
	require.NoError(t, db.Model(&models.ProgressRecord{}).
		Where("device_id = ?", staleDevice.DeviceID()).
		UpdateColumn("updated_at", old).Error)

	SweepStaleDeviceProgress(db, 180, utils.InitLogger())

	records, err := store.FetchAll(staleDevice)
	require.NoError(t, err)
	assert.Empty(t, records, "stale device rows must be swept")

	records, err = store.FetchAll(freshDevice)
	require.NoError(t, err)
	assert.Len(t, records, 1, "fresh device rows must survive")

	records, err = store.FetchAll(user)
	require.NoError(t, err)
	assert.Len(t, records, 1, "account rows must never be swept")
}
