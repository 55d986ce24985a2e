package progress

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with per-key failure injection.
type fakeStore struct {
	records    map[string]map[string]int // owner -> "module/type" -> value
	failUpsert map[string]bool           // "module/type" -> fail next upserts
	failFetch  bool
	failDelete bool
	upserts    int
	deletes    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:    make(map[string]map[string]int),
		failUpsert: make(map[string]bool),
	}
}

func key(module, exerciseType string) string {
	return module + "/" + exerciseType
}

func (s *fakeStore) FetchAll(owner Owner) ([]Record, error) {
	if s.failFetch {
		return nil, errors.New("store unavailable")
	}
	var records []Record
	for k, v := range s.records[owner.String()] {
		module, exerciseType, _ := strings.Cut(k, "/")
		records = append(records, Record{Module: module, ExerciseType: exerciseType, Value: v})
	}
	return records, nil
}

func (s *fakeStore) Get(owner Owner, module, exerciseType string) (*Record, error) {
	v, ok := s.records[owner.String()][key(module, exerciseType)]
	if !ok {
		return nil, nil
	}
	return &Record{Module: module, ExerciseType: exerciseType, Value: v}, nil
}

func (s *fakeStore) Upsert(owner Owner, module, exerciseType string, value int) error {
	if s.failUpsert[key(module, exerciseType)] {
		return errors.New("store unavailable")
	}
	s.upserts++
	if s.records[owner.String()] == nil {
		s.records[owner.String()] = make(map[string]int)
	}
	s.records[owner.String()][key(module, exerciseType)] = value
	return nil
}

func (s *fakeStore) DeleteAll(owner Owner) error {
	if s.failDelete {
		return errors.New("store unavailable")
	}
	s.deletes++
	delete(s.records, owner.String())
	return nil
}

func (s *fakeStore) seed(owner Owner, module, exerciseType string, value int) {
	if s.records[owner.String()] == nil {
		s.records[owner.String()] = make(map[string]int)
	}
	s.records[owner.String()][key(module, exerciseType)] = value
}

func (s *fakeStore) snapshot(owner Owner) map[string]int {
	out := make(map[string]int)
	for k, v := range s.records[owner.String()] {
		out[k] = v
	}
	return out
}

const testDeviceID = "7b0d2f8e-1c4a-4f7b-9a6d-3e5c8b1a2d4f"

func TestMergeMovesDeviceProgressToUser(t *testing.T) {
	store := newFakeStore()
	device := DeviceOwner(testDeviceID)
	store.seed(device, "math", "addition", 7)
	store.seed(device, "reading", "beginner", 3)
	store.seed(UserOwner(1), "math", "addition", 4)

	merger := NewMerger(store, nil)
	require.NoError(t, merger.Merge(testDeviceID, 1))

	assert.Equal(t, map[string]int{
		"math/addition":    7,
		"reading/beginner": 3,
	}, store.snapshot(UserOwner(1)))

	records, err := store.FetchAll(device)
	require.NoError(t, err)
	assert.Empty(t, records, "device rows must be gone after a successful merge")
}

func TestMergeEmptyDeviceIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.seed(UserOwner(1), "languages", "french", 2)

	merger := NewMerger(store, nil)
	require.NoError(t, merger.Merge(testDeviceID, 1))

	assert.Equal(t, map[string]int{"languages/french": 2}, store.snapshot(UserOwner(1)))
	assert.Zero(t, store.upserts, "no writes for an empty device row set")
	assert.Zero(t, store.deletes)
}

func TestMergeMissingDeviceIDIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.seed(UserOwner(1), "math", "addition", 4)

	merger := NewMerger(store, nil)
	require.NoError(t, merger.Merge("", 1))
	assert.Zero(t, store.upserts)
}

func TestMergeNeverRegressesHigherUserScore(t *testing.T) {
	store := newFakeStore()
	store.seed(DeviceOwner(testDeviceID), "writing", "advanced", 10)
	store.seed(UserOwner(1), "writing", "advanced", 15)

	merger := NewMerger(store, nil)
	require.NoError(t, merger.Merge(testDeviceID, 1))

	assert.Equal(t, map[string]int{"writing/advanced": 15}, store.snapshot(UserOwner(1)))
}

func TestMergeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.seed(DeviceOwner(testDeviceID), "math", "addition", 7)
	store.seed(DeviceOwner(testDeviceID), "math", "counting", 2)
	store.seed(UserOwner(1), "math", "addition", 9)

	merger := NewMerger(store, nil)
	require.NoError(t, merger.Merge(testDeviceID, 1))
	first := store.snapshot(UserOwner(1))

	// The second run sees an empty device row set and must change nothing.
	require.NoError(t, merger.Merge(testDeviceID, 1))
	assert.Equal(t, first, store.snapshot(UserOwner(1)))
}

func TestMergePartialFailureKeepsDeviceRowsAndConverges(t *testing.T) {
	store := newFakeStore()
	device := DeviceOwner(testDeviceID)
	store.seed(device, "math", "addition", 7)
	store.seed(device, "reading", "beginner", 3)
	store.failUpsert[key("reading", "beginner")] = true

	merger := NewMerger(store, nil)
	err := merger.Merge(testDeviceID, 1)
	require.Error(t, err, "a failed key must fail the merge")

	// Device rows survive an incomplete merge.
	records, fetchErr := store.FetchAll(device)
	require.NoError(t, fetchErr)
	assert.Len(t, records, 2)

	// The store comes back; retrying converges to the uninterrupted result.
	store.failUpsert = map[string]bool{}
	require.NoError(t, merger.Merge(testDeviceID, 1))
	assert.Equal(t, map[string]int{
		"math/addition":    7,
		"reading/beginner": 3,
	}, store.snapshot(UserOwner(1)))

	records, fetchErr = store.FetchAll(device)
	require.NoError(t, fetchErr)
	assert.Empty(t, records)
}

func TestMergeDeleteFailureIsRetryable(t *testing.T) {
	store := newFakeStore()
	store.seed(DeviceOwner(testDeviceID), "math", "addition", 7)
	store.failDelete = true

	merger := NewMerger(store, nil)
	require.Error(t, merger.Merge(testDeviceID, 1))
	assert.Equal(t, map[string]int{"math/addition": 7}, store.snapshot(UserOwner(1)))

	// Retrying after the delete failure re-merges max(x, x) = x and cleans up.
	store.failDelete = false
	require.NoError(t, merger.Merge(testDeviceID, 1))
	assert.Equal(t, map[string]int{"math/addition": 7}, store.snapshot(UserOwner(1)))

	records, err := store.FetchAll(DeviceOwner(testDeviceID))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMergeFetchFailureLeavesEverythingUntouched(t *testing.T) {
	store := newFakeStore()
	store.seed(UserOwner(1), "math", "addition", 4)
	store.failFetch = true

	merger := NewMerger(store, nil)
	require.Error(t, merger.Merge(testDeviceID, 1))
	assert.Equal(t, map[string]int{"math/addition": 4}, store.snapshot(UserOwner(1)))
	assert.Zero(t, store.upserts)
}
