package main

import (
	"context"
	"os"
	"time"

	"codeberg.org/mutker/screenwell/internal/config"
	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/metrics"
	"codeberg.org/mutker/screenwell/internal/monitor"
	"codeberg.org/mutker/screenwell/internal/notify"
	"codeberg.org/mutker/screenwell/internal/perception"
	"codeberg.org/mutker/screenwell/internal/pid"
	"codeberg.org/mutker/screenwell/internal/settings"
	"codeberg.org/mutker/screenwell/internal/usage"
	"golang.org/x/sync/errgroup"
)

const appName = "screenwell"

// monitorFeatures maps each monitor to the settings feature that enables it.
var monitorFeatures = map[string]string{
	monitor.NameDistance:  settings.FeatureDistance,
	monitor.NameTension:   settings.FeatureEyeStrain,
	monitor.NameDaily:     settings.FeatureDailyLimit,
	monitor.NameNight:     settings.FeatureNightLimit,
	monitor.NameBreaks:    settings.FeatureBreaks,
	monitor.NameBlueLight: settings.FeatureBlueLight,
}

// app holds the collaborators shared by every monitor of one process.
type app struct {
	cfg      *config.Config
	settings *settings.Store
	gateway  *notify.Gateway
	metrics  metrics.Collector
	logger   logger.Logger
}

func newApp(cfg *config.Config) (*app, error) {
	store, err := settings.Open(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}

	dispatcher, err := notify.New(notify.Kind(cfg.Notifier), appName)
	if err != nil {
		return nil, err
	}

	cooldown := time.Duration(cfg.Cooldown) * time.Second
	gateway := notify.NewGateway(dispatcher,
		notify.WithCooldown(cooldown),
		notify.WithLogger(logger.Component("notify")),
	)

	metricsCfg := metrics.DefaultConfig()
	metricsCfg.DBPath = cfg.MetricsDB
	metricsCfg.Enabled = cfg.Metrics

	collector, err := metrics.NewService(metricsCfg, logger.Component("metrics"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		settings: store,
		gateway:  gateway,
		metrics:  collector,
		logger:   logger.Component("app"),
	}, nil
}

func (a *app) close() {
	if err := a.metrics.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close metrics")
	}
}

func (a *app) deps() monitor.Deps {
	return monitor.Deps{
		Sender:   a.gateway,
		Settings: a.settings,
		Metrics:  a.metrics,
		Cooldown: time.Duration(a.cfg.Cooldown) * time.Second,
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (a *app) buildMonitor(name string) (monitor.Monitor, error) {
	deps := a.deps()

	switch name {
	case monitor.NameDistance:
		src, err := monitor.OpenCamera(deps, a.cfg.PerceptionCommand, perception.ModeFace)
		if err != nil {
			return nil, err
		}
		return monitor.NewDistance(deps, src, seconds(a.cfg.FrameInterval)), nil
	case monitor.NameTension:
		src, err := monitor.OpenCamera(deps, a.cfg.PerceptionCommand, perception.ModeEyes)
		if err != nil {
			return nil, err
		}
		return monitor.NewTension(deps, src, seconds(a.cfg.FrameInterval)), nil
	case monitor.NameDaily:
		store, err := usage.NewFileStore(a.cfg.UsageFile)
		if err != nil {
			return nil, err
		}
		return monitor.NewDaily(deps, store, seconds(a.cfg.Interval)), nil
	case monitor.NameNight:
		return monitor.NewNight(deps, seconds(a.cfg.Interval)), nil
	case monitor.NameBreaks:
		return monitor.NewBreaks(deps, seconds(a.cfg.BreakInterval)), nil
	case monitor.NameBlueLight:
		filter, err := monitor.NewCommandFilter(a.cfg.FilterCommand)
		if err != nil {
			return nil, err
		}
		return monitor.NewBlueLight(deps, filter, seconds(a.cfg.Interval)), nil
	default:
		return nil, errors.New().WithData(errors.ErrUnknownMonitor, name)
	}
}

// runMonitor runs one monitor under its PID lock until ctx is done.
func (a *app) runMonitor(ctx context.Context, name string) error {
	lock, err := pid.Acquire(a.cfg.DataDir, name)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			a.logger.Warn().Err(err).Str("monitor", name).Msg("Failed to release PID file")
		}
	}()

	m, err := a.buildMonitor(name)
	if err != nil {
		return err
	}

	return m.Run(ctx)
}

// calibrated reports whether the camera monitor has a stored baseline.
// Monitors without calibration always report true.
func calibrated(s *settings.Store, name string) bool {
	switch name {
	case monitor.NameDistance:
		return s.Float64(settings.KeyDistanceArea) > 0
	case monitor.NameTension:
		ratios, err := s.Float64Slice(settings.KeyTensionRatios)
		return err == nil && monitor.TensionCalibrated(ratios)
	default:
		return true
	}
}

// calibrationAsset returns the calibration image of a camera monitor.
func (a *app) calibrationAsset(name string) (string, bool) {
	switch name {
	case monitor.NameDistance:
		return a.settings.AssetPath(settings.DistanceCalibrationImage), true
	case monitor.NameTension:
		return a.settings.AssetPath(settings.TensionCalibrationImage), true
	default:
		return "", false
	}
}

// calibrate measures the calibration image of a camera monitor and stores
// its baseline.
func (a *app) calibrate(ctx context.Context, name string) error {
	errFactory := errors.New()

	var mode perception.Mode
	switch name {
	case monitor.NameDistance:
		mode = perception.ModeFace
	case monitor.NameTension:
		mode = perception.ModeEyes
	default:
		return errFactory.WithData(errors.ErrUnknownMonitor, name)
	}

	src, err := monitor.OpenCamera(a.deps(), a.cfg.PerceptionCommand, mode)
	if err != nil {
		return err
	}
	defer src.Close()

	if mode == perception.ModeFace {
		_, err = monitor.CalibrateDistance(ctx, a.deps(), src)
	} else {
		_, err = monitor.CalibrateTension(ctx, a.deps(), src)
	}

	return err
}

// autoCalibrate calibrates a camera monitor that has no baseline yet but
// whose calibration image is present.
func (a *app) autoCalibrate(ctx context.Context, name string) error {
	if calibrated(a.settings, name) {
		return nil
	}

	asset, ok := a.calibrationAsset(name)
	if !ok {
		return nil
	}
	if _, err := os.Stat(asset); err != nil {
		return nil
	}

	a.logger.Info().Str("monitor", name).Str("image", asset).Msg("Calibrating from image")

	return a.calibrate(ctx, name)
}

// start calibrates if needed and runs the monitor.
func (a *app) start(ctx context.Context, name string) error {
	if err := a.autoCalibrate(ctx, name); err != nil {
		return err
	}

	return a.runMonitor(ctx, name)
}

// runEnabled runs every monitor whose feature is enabled until ctx is done
// or one of them fails. A monitor that declines to start for lack of
// calibration does not stop the others.
func (a *app) runEnabled(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	started := 0
	for _, name := range monitor.Names {
		if !a.settings.Enabled(monitorFeatures[name]) {
			a.logger.Debug().Str("monitor", name).Msg("Feature disabled")
			continue
		}

		started++
		g.Go(func() error {
			err := a.start(ctx, name)
			if monitor.IsSetupError(err) {
				a.logger.Warn().Err(err).Str("monitor", name).Msg("Monitor not started")
				return nil
			}
			return err
		})
	}

	if started == 0 {
		a.logger.Warn().Str("settings", a.settings.Path()).Msg("No features enabled")
		return nil
	}

	return g.Wait()
}

// watchSettings reloads the settings file on change until ctx is done.
func (a *app) watchSettings(ctx context.Context) {
	err := a.settings.Watch(ctx, func() {
		a.logger.Info().Msg("Settings changed")
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("Settings will not be reloaded")
	}
}
