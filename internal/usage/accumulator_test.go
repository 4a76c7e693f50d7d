package usage_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	rec    usage.Record
	found  bool
	saves  int
	failN  int
	loadEr error
}

func (m *memStore) Load() (usage.Record, bool, error) {
	return m.rec, m.found, m.loadEr
}

func (m *memStore) Save(r usage.Record) error {
	m.saves++
	if m.failN > 0 {
		m.failN--
		return fmt.Errorf("disk full")
	}
	m.rec = r
	m.found = true
	return nil
}

func noon() time.Time {
	return time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)
}

func TestOpenMissingRecordStartsFresh(t *testing.T) {
	now := noon()
	acc, err := usage.Open(&memStore{}, now)
	require.NoError(t, err)

	rec := acc.Record()
	assert.Zero(t, rec.SecondsUsed)
	assert.Equal(t, now, rec.SessionStart)
}

func TestTickAddsElapsed(t *testing.T) {
	now := noon()
	store := &memStore{rec: usage.Record{Date: now.Add(-time.Hour), SecondsUsed: 600, SessionStart: now.Add(-time.Hour)}, found: true}

	acc, err := usage.Open(store, now)
	require.NoError(t, err)
	assert.Equal(t, int64(600), acc.Record().SecondsUsed, "downtime before this session is not counted")

	rec, err := acc.Tick(now.Add(60 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(660), rec.SecondsUsed)
	assert.Equal(t, now.Add(60*time.Second), rec.SessionStart)

	rec, err = acc.Tick(now.Add(150 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(750), rec.SecondsUsed)

	assert.Equal(t, 2, store.saves)
	assert.Equal(t, int64(750), store.rec.SecondsUsed)
}

func TestYesterdayRecordResets(t *testing.T) {
	now := noon()
	yesterday := now.AddDate(0, 0, -1)
	store := &memStore{rec: usage.Record{Date: yesterday, SecondsUsed: 3600, SessionStart: yesterday}, found: true}

	acc, err := usage.Open(store, now)
	require.NoError(t, err)

	rec, err := acc.Tick(now.Add(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(90), rec.SecondsUsed)
}

func TestTickResetsAcrossMidnight(t *testing.T) {
	late := time.Date(2026, 10, 15, 23, 59, 0, 0, time.Local)
	acc, err := usage.Open(&memStore{}, late)
	require.NoError(t, err)

	rec, err := acc.Tick(late.Add(30 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(30), rec.SecondsUsed)

	rec, err = acc.Tick(late.Add(2 * time.Minute))
	require.NoError(t, err)
	assert.Zero(t, rec.SecondsUsed)
	assert.Equal(t, late.Add(2*time.Minute), rec.SessionStart)
}

func TestTickKeepsSubSecondRemainder(t *testing.T) {
	start := noon()
	acc, err := usage.Open(&memStore{}, start)
	require.NoError(t, err)

	gap := 60*time.Second - time.Millisecond
	now := start
	var rec usage.Record
	for range 60 {
		now = now.Add(gap)
		rec, err = acc.Tick(now)
		require.NoError(t, err)
	}

	wall := int64(now.Sub(start) / time.Second)
	assert.Equal(t, int64(3599), wall)
	assert.Equal(t, wall, rec.SecondsUsed)
	assert.Less(t, now.Sub(rec.SessionStart), time.Second)
}

func TestTickIgnoresBackwardsClock(t *testing.T) {
	now := noon()
	acc, err := usage.Open(&memStore{}, now)
	require.NoError(t, err)

	rec, err := acc.Tick(now.Add(-10 * time.Second))
	require.NoError(t, err)
	assert.Zero(t, rec.SecondsUsed)
	assert.Equal(t, now.Add(-10*time.Second), rec.SessionStart)

	rec, err = acc.Tick(now.Add(50 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(60), rec.SecondsUsed)
}

func TestFlushAddsFinalInterval(t *testing.T) {
	now := noon()
	store := &memStore{}
	acc, err := usage.Open(store, now)
	require.NoError(t, err)

	_, err = acc.Tick(now.Add(time.Minute))
	require.NoError(t, err)

	rec, err := acc.Flush(now.Add(time.Minute + 25*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(85), rec.SecondsUsed)
	assert.Equal(t, int64(85), store.rec.SecondsUsed)
}

func TestPersistRetries(t *testing.T) {
	now := noon()
	store := &memStore{failN: 2}
	acc, err := usage.Open(store, now, usage.WithPersistRetry(3, 0))
	require.NoError(t, err)

	rec, err := acc.Tick(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, store.saves)
	assert.Equal(t, int64(60), rec.SecondsUsed)
}

func TestPersistFailureKeepsAccumulation(t *testing.T) {
	now := noon()
	store := &memStore{failN: 3}
	acc, err := usage.Open(store, now, usage.WithPersistRetry(3, 0))
	require.NoError(t, err)

	rec, err := acc.Tick(now.Add(time.Minute))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, usage.ErrPersistFailed))
	assert.Equal(t, int64(60), rec.SecondsUsed)

	rec, err = acc.Tick(now.Add(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(120), rec.SecondsUsed)
	assert.Equal(t, int64(120), store.rec.SecondsUsed)
}

func TestOpenPropagatesStorageErrors(t *testing.T) {
	store := &memStore{loadEr: errors.New().New(usage.ErrStorageAccess)}
	_, err := usage.Open(store, noon())
	assert.Error(t, err)
}

func TestOpenRecoversFromCorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily_usage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := usage.NewFileStore(path)
	require.NoError(t, err)

	acc, err := usage.Open(store, noon())
	require.NoError(t, err)
	assert.Zero(t, acc.Record().SecondsUsed)
}

func TestEndToEndRolloverThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily_usage.json")
	now := noon()
	yesterday := now.AddDate(0, 0, -1)

	store, err := usage.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(usage.Record{Date: yesterday, SecondsUsed: 3600, SessionStart: yesterday}))

	acc, err := usage.Open(store, now)
	require.NoError(t, err)
	_, err = acc.Tick(now.Add(42 * time.Second))
	require.NoError(t, err)

	reloaded, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(42), reloaded.SecondsUsed)
	assert.True(t, reloaded.SameDay(now))
}
