// Package config loads process configuration from flags, SCREENWELL_*
// environment variables and an optional TOML file, in that order of
// precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/notify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel      = string(LogLevelInfo)
	DefaultInterval      = 60
	DefaultFrameInterval = 5
	DefaultBreakInterval = 20 * 60
	DefaultCooldown      = 5
	DefaultNotifier      = string(notify.KindAuto)
	DefaultFilterCommand = "nightlight"

	defaultEnvPrefix = "SCREENWELL"
	appName          = "screenwell"
	settingsFileName = "settings.json"
	usageFileName    = "daily_usage.json"
	metricsFileName  = "metrics.db"
)

type Config struct {
	LogLevel          string `mapstructure:"log_level"`
	Interval          int    `mapstructure:"interval"`
	FrameInterval     int    `mapstructure:"frame_interval"`
	BreakInterval     int    `mapstructure:"break_interval"`
	Cooldown          int    `mapstructure:"cooldown"`
	DataDir           string `mapstructure:"data_dir"`
	SettingsFile      string `mapstructure:"settings_file"`
	UsageFile         string `mapstructure:"usage_file"`
	Notifier          string `mapstructure:"notifier"`
	PerceptionCommand string `mapstructure:"perception_command"`
	FilterCommand     string `mapstructure:"filter_command"`
	Metrics           bool   `mapstructure:"metrics"`
	MetricsDB         string `mapstructure:"metrics_db"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":          "log_level",
	"interval":           "interval",
	"frame-interval":     "frame_interval",
	"break-interval":     "break_interval",
	"cooldown":           "cooldown",
	"data-dir":           "data_dir",
	"notifier":           "notifier",
	"perception-command": "perception_command",
	"filter-command":     "filter_command",
	"metrics":            "metrics",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Int("interval", DefaultInterval, "Seconds between daily and night limit checks")
	fs.Int("frame-interval", DefaultFrameInterval, "Seconds between camera frames")
	fs.Int("break-interval", DefaultBreakInterval, "Seconds between break reminders")
	fs.Int("cooldown", DefaultCooldown, "Seconds before an identical notification may repeat")
	fs.String("data-dir", "", "Directory holding settings, usage and calibration images")
	fs.String("notifier", DefaultNotifier, "Notification backend (auto, dbus, osascript, log)")
	fs.String("perception-command", "", "Detector command printing JSON detections")
	fs.String("filter-command", DefaultFilterCommand, "Display color temperature command")
	fs.Bool("metrics", false, "Record monitor ticks in a local SQLite database")
}

// Load reads configuration. Flags in fs, if given, override environment
// variables, which override the config file.
func Load(fs *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("frame_interval", DefaultFrameInterval)
	v.SetDefault("break_interval", DefaultBreakInterval)
	v.SetDefault("cooldown", DefaultCooldown)
	v.SetDefault("data_dir", "")
	v.SetDefault("settings_file", "")
	v.SetDefault("usage_file", "")
	v.SetDefault("notifier", DefaultNotifier)
	v.SetDefault("perception_command", "")
	v.SetDefault("filter_command", DefaultFilterCommand)
	v.SetDefault("metrics", false)
	v.SetDefault("metrics_db", "")
}

// readConfigFile loads the explicit file, $<PREFIX>_CONFIG, or the first
// screenwell.toml found in the user and system config directories. Only an
// explicitly named file must exist.
func readConfigFile(v *viper.Viper, o *options) error {
	errFactory := errors.New()

	path := o.configPath
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

// resolvePaths fills unset file locations from the data directory.
func (c *Config) resolvePaths() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.SettingsFile == "" {
		c.SettingsFile = filepath.Join(c.DataDir, settingsFileName)
	}
	if c.UsageFile == "" {
		c.UsageFile = filepath.Join(c.DataDir, usageFileName)
	}
	if c.MetricsDB == "" {
		c.MetricsDB = filepath.Join(c.DataDir, metricsFileName)
	}
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appName)
	}
	return filepath.Join(os.TempDir(), appName)
}

// Validate checks every field and reports the first problem as a coded
// error carrying a ValidationError.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, &validationError{
			field: "log_level", value: c.LogLevel, reason: "must be one of debug, info, warning, error",
		})
	}

	intervals := []struct {
		field string
		value int
	}{
		{"interval", c.Interval},
		{"frame_interval", c.FrameInterval},
		{"break_interval", c.BreakInterval},
	}
	for _, iv := range intervals {
		if iv.value <= 0 {
			return errFactory.WithData(errors.ErrInvalidInterval, &validationError{
				field: iv.field, value: iv.value, reason: "must be positive",
			})
		}
	}

	if c.Cooldown < 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, &validationError{
			field: "cooldown", value: c.Cooldown, reason: "must not be negative",
		})
	}

	if !notify.Kind(c.Notifier).IsValid() {
		return errFactory.WithData(errors.ErrInvalidConfig, &validationError{
			field: "notifier", value: c.Notifier, reason: "must be one of auto, dbus, osascript, log",
		})
	}

	return nil
}
