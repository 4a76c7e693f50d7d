package settings_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets", "settings.json")

	s, err := settings.Open(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "defaults are written to disk")

	assert.Equal(t, "22:00", s.String(settings.KeyNightLimitTime))
	assert.Equal(t, "04:00", s.String(settings.KeyDailyLimitTime))
	assert.Zero(t, s.Float64(settings.KeyDistanceArea))
	assert.False(t, s.Enabled(settings.FeatureDistance))

	ratios, err := s.Float64Slice(settings.KeyTensionRatios)
	require.NoError(t, err)
	assert.Empty(t, ratios)
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := settings.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(settings.KeyDistanceArea, 1000))
	require.NoError(t, s.Set(settings.KeyTensionRatios, []float64{1.5, 1.6}))
	require.NoError(t, s.Set(settings.EnableKey(settings.FeatureDistance), true))

	reopened, err := settings.Open(path)
	require.NoError(t, err)
	assert.InDelta(t, 1000, reopened.Float64(settings.KeyDistanceArea), 1e-9)
	assert.True(t, reopened.Enabled(settings.FeatureDistance))

	ratios, err := reopened.Float64Slice(settings.KeyTensionRatios)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.6}, ratios)
}

func TestReadsExistingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	doc := `{
    "eye_strain_prevention_ratios": 60,
    "night_limit_time": "23:15",
    "daily_limit_enable": true,
    "blue_light_filter_evening": 40
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := settings.Open(path)
	require.NoError(t, err)

	assert.Equal(t, "23:15", s.String(settings.KeyNightLimitTime))
	assert.True(t, s.Enabled(settings.FeatureDailyLimit))
	assert.Equal(t, 40, s.Int(settings.BlueLightKey("evening")))
	assert.Equal(t, "04:00", s.String(settings.KeyDailyLimitTime), "unset keys fall back to defaults")

	_, err = s.Float64Slice(settings.KeyTensionRatios)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, settings.ErrInvalidValue))
}

func TestGetDefault(t *testing.T) {
	s, err := settings.Open(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	assert.Equal(t, "fallback", s.Get("no_such_key", "fallback"))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := settings.Open("")
	assert.Error(t, err)
}

func TestAssetPath(t *testing.T) {
	dir := t.TempDir()
	s, err := settings.Open(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, settings.DistanceCalibrationImage), s.AssetPath(settings.DistanceCalibrationImage))
}

func TestWatchReloadsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := settings.Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"night_limit_time": "21:45"}`), 0o600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("settings change not observed")
	}
	assert.Equal(t, "21:45", s.String(settings.KeyNightLimitTime))

	cancel()
	require.NoError(t, <-done)
}
