package monitor

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/settings"
)

const (
	dayStart     = 6
	eveningStart = 18
	nightStart   = 21

	filterTimeout = 10 * time.Second
)

// Period is a part of the day with its own filter strength.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodEvening Period = "evening"
	PeriodNight   Period = "night"
)

// PeriodAt returns the period of the local hour of t.
func PeriodAt(t time.Time) Period {
	switch h := t.Hour(); {
	case h >= dayStart && h < eveningStart:
		return PeriodDay
	case h >= eveningStart && h < nightStart:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

// Label is the capitalized period name.
func (p Period) Label() string {
	s := string(p)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Filter adjusts the display color temperature.
type Filter interface {
	Apply(ctx context.Context, percent int) error
	Off(ctx context.Context) error
}

// CommandFilter drives a nightlight-style command: "<cmd> on",
// "<cmd> temp <percent>" and "<cmd> off".
type CommandFilter struct {
	binary string
}

// NewCommandFilter resolves command on PATH.
func NewCommandFilter(command string) (*CommandFilter, error) {
	binary, err := exec.LookPath(command)
	if err != nil {
		return nil, errors.New().Wrap(ErrFilterUnavailable, err)
	}

	return &CommandFilter{binary: binary}, nil
}

func (f *CommandFilter) Apply(ctx context.Context, percent int) error {
	if err := f.run(ctx, "on"); err != nil {
		return err
	}
	return f.run(ctx, "temp", strconv.Itoa(percent))
}

func (f *CommandFilter) Off(ctx context.Context) error {
	return f.run(ctx, "off")
}

func (f *CommandFilter) run(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, filterTimeout)
	defer cancel()

	//nolint:gosec // G204: binary was resolved from the user's own config
	out, err := exec.CommandContext(ctx, f.binary, args...).CombinedOutput()
	if err != nil {
		return errors.New().WithData(ErrFilterFailed, struct {
			Args   []string
			Error  string
			Output string
		}{
			Args:   args,
			Error:  err.Error(),
			Output: strings.TrimSpace(string(out)),
		})
	}

	return nil
}

// BlueLightState is threaded between blue light ticks.
type BlueLightState struct {
	// Applied is the period whose strength is on the display.
	Applied Period
	// Announced is the last period a notification went out for.
	Announced Period
}

// BlueLight applies the configured filter strength for the current part
// of the day and announces period changes.
type BlueLight struct {
	deps     Deps
	filter   Filter
	interval time.Duration
	logger   logger.Logger
}

func NewBlueLight(deps Deps, filter Filter, interval time.Duration) *BlueLight {
	return &BlueLight{
		deps:     deps,
		filter:   filter,
		interval: interval,
		logger:   logger.Component(NameBlueLight),
	}
}

func (*BlueLight) Name() string {
	return NameBlueLight
}

// Step applies the filter when the period at now differs from the one on
// the display. An announcement goes out once per period change, after the
// filter took effect.
func (m *BlueLight) Step(ctx context.Context, s BlueLightState, now time.Time) (BlueLightState, Tick, error) {
	var tick Tick

	period := PeriodAt(now)
	if period == s.Applied {
		return s, tick, nil
	}

	percent := m.deps.Settings.Int(settings.BlueLightKey(string(period)))
	if err := m.filter.Apply(ctx, percent); err != nil {
		return s, tick, err
	}
	s.Applied = period

	m.logger.Info().Str("period", string(period)).Int("percent", percent).Msg("Blue light filter applied")

	if s.Announced != period {
		tick.Alerts = []Alert{blueLightActive(period, percent)}
		s.Announced = period
	}

	return s, tick, nil
}

func (m *BlueLight) Run(ctx context.Context) error {
	m.logger.Info().Dur("interval", m.interval).Msg("Blue light filter started")

	var state BlueLightState

	loopErr := every(ctx, m.interval, true, func() {
		now := m.deps.now()

		next, tick, err := m.Step(ctx, state, now)
		if err != nil {
			if ctx.Err() == nil {
				m.logger.Error().Err(err).Msg("Failed to apply blue light filter")
			}
			return
		}
		state = next

		m.deps.emit(ctx, m.logger, m.Name(), now, tick)
	})

	offCtx, cancel := context.WithTimeout(context.Background(), filterTimeout)
	defer cancel()
	if err := m.filter.Off(offCtx); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to turn off blue light filter")
	}

	return loopErr
}
