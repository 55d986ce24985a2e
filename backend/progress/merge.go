package progress

import (
	"fmt"
	"log"
)

// Merger folds anonymous device progress into a user account at sign-in or
// sign-up. Every counter is treated as a monotonic best score, so merging
// takes the higher value per key and is never additive. The whole operation
// is idempotent: max(x, x) = x, and the device rows are only deleted once
// every key has been merged, so an interrupted merge is completed by simply
// running it again on the next sign-in.
type Merger struct {
	Store  Store
	Logger *log.Logger
}

func NewMerger(store Store, logger *log.Logger) *Merger {
	return &Merger{Store: store, Logger: logger}
}

// Merge reconciles deviceID's progress into userID's account. A missing
// device id or an empty device row set is a no-op that never touches user
// rows. On success the device rows are gone; on any per-key failure the
// remaining keys are still attempted, the delete is skipped, and the error
// reports how much of the merge went through.
func (m *Merger) Merge(deviceID string, userID uint) error {
	if deviceID == "" {
		return nil
	}

	device := DeviceOwner(deviceID)
	user := UserOwner(userID)

	records, err := m.Store.FetchAll(device)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	failed := 0
	var lastErr error
	for _, rec := range records {
		if err := m.mergeKey(user, rec); err != nil {
			failed++
			lastErr = err
			if m.Logger != nil {
				m.Logger.Printf("merge %s -> %s: %v", device, user, err)
			}
		}
	}
	if failed > 0 {
		// Device rows stay put so the next sign-in retries the merge.
		return fmt.Errorf("merge: %d of %d keys failed, last error: %w", failed, len(records), lastErr)
	}

	if err := m.Store.DeleteAll(device); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	return nil
}

func (m *Merger) mergeKey(user Owner, rec Record) error {
	existing, err := m.Store.Get(user, rec.Module, rec.ExerciseType)
	if err != nil {
		return err
	}

	value := rec.Value
	if existing != nil && existing.Value > value {
		value = existing.Value
	}
	return m.Store.Upsert(user, rec.Module, rec.ExerciseType, value)
}
