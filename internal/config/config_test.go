package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/screenwell/internal/config"
	"codeberg.org/mutker/screenwell/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "screenwell.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
interval = 30
frame_interval = 2
break_interval = 600
cooldown = 10
data_dir = "/var/lib/screenwell"
notifier = "log"
perception_command = "detect --json"
metrics = true
metrics_db = "/path/to/metrics.db"
`)
	t.Setenv("SCREENWELL_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.Interval)
	assert.Equal(t, 2, cfg.FrameInterval)
	assert.Equal(t, 600, cfg.BreakInterval)
	assert.Equal(t, 10, cfg.Cooldown)
	assert.Equal(t, "log", cfg.Notifier)
	assert.Equal(t, "detect --json", cfg.PerceptionCommand)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, "/path/to/metrics.db", cfg.MetricsDB)
	assert.Equal(t, "/var/lib/screenwell/settings.json", cfg.SettingsFile)
	assert.Equal(t, "/var/lib/screenwell/daily_usage.json", cfg.UsageFile)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 60, cfg.Interval)
	assert.Equal(t, 5, cfg.FrameInterval)
	assert.Equal(t, 1200, cfg.BreakInterval)
	assert.Equal(t, 5, cfg.Cooldown)
	assert.Equal(t, "auto", cfg.Notifier)
	assert.Equal(t, "nightlight", cfg.FilterCommand)
	assert.False(t, cfg.Metrics)
	assert.Equal(t, filepath.Join(dataHome, "screenwell"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dataHome, "screenwell", "metrics.db"), cfg.MetricsDB)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", writeConfig(t, "This is not a valid TOML file\n"))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(nil, config.WithConfigFile(filepath.Join(t.TempDir(), "absent.toml")))
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", writeConfig(t, `log_level = "invalid"`))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	verr, ok := appErr.Data().(config.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "log_level", verr.Field())
	assert.Equal(t, "invalid", verr.Value())
}

func TestInvalidInterval(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", writeConfig(t, `frame_interval = 0`))

	_, err := config.Load(nil)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestInvalidNotifier(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", writeConfig(t, `notifier = "pigeon"`))

	_, err := config.Load(nil)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", writeConfig(t, `interval = 30`))
	t.Setenv("SCREENWELL_INTERVAL", "45")
	t.Setenv("SCREENWELL_FRAME_INTERVAL", "3")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Interval)
	assert.Equal(t, 3, cfg.FrameInterval)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", writeConfig(t, `log_level = "error"`))
	t.Setenv("SCREENWELL_LOG_LEVEL", "warning")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-level", "debug", "--data-dir", "/tmp/sw"}))

	cfg, err := config.Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, "/tmp/sw/settings.json", cfg.SettingsFile)
}

func TestUnchangedFlagsKeepFileValues(t *testing.T) {
	t.Setenv("SCREENWELL_CONFIG", writeConfig(t, `cooldown = 9`))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := config.Load(fs)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Cooldown)
}
