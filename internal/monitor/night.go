package monitor

import (
	"context"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/ladder"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/metrics"
	"codeberg.org/mutker/screenwell/internal/settings"
)

// Night counts down to bedtime and nags past it.
type Night struct {
	deps     Deps
	ladder   ladder.Ladder
	interval time.Duration
	logger   logger.Logger
}

func NewNight(deps Deps, interval time.Duration) *Night {
	return &Night{
		deps:     deps,
		ladder:   ladder.Default,
		interval: interval,
		logger:   logger.Component(NameNight),
	}
}

func (*Night) Name() string {
	return NameNight
}

// Step resolves the bedtime deadline for now, rolling it over first, and
// evaluates the time left.
func (m *Night) Step(bedtime ladder.TimeOfDay, now time.Time) (ladder.Decision, []Alert) {
	deadline := m.ladder.Deadline(bedtime, now)
	d := m.ladder.Evaluate(int64(deadline.Sub(now) / time.Second))

	switch {
	case !d.Fire:
		return d, nil
	case d.Region == ladder.BeforeLimit:
		return d, []Alert{bedtimeReminder(d.Rung)}
	case d.Region == ladder.AtLimit:
		return d, []Alert{bedtimeReached(bedtime)}
	default:
		return d, []Alert{bedtimePast(d.Rung)}
	}
}

func (m *Night) bedtime(last ladder.TimeOfDay) ladder.TimeOfDay {
	raw := m.deps.Settings.String(settings.KeyNightLimitTime)
	tod, err := ladder.ParseTimeOfDay(raw)
	if err != nil {
		m.logger.Warn().Err(err).Str("value", raw).Str("using", last.String()).Msg("Invalid bedtime")
		return last
	}
	return tod
}

func (m *Night) Run(ctx context.Context) error {
	bedtime, err := ladder.ParseTimeOfDay(m.deps.Settings.String(settings.KeyNightLimitTime))
	if err != nil {
		return errors.New().Wrap(ErrInvalidLimit, err)
	}

	m.logger.Info().
		Str("bedtime", bedtime.String()).
		Dur("interval", m.interval).
		Msg("Night limit started")

	return every(ctx, m.interval, true, func() {
		now := m.deps.now()

		bedtime = m.bedtime(bedtime)
		d, alerts := m.Step(bedtime, now)

		m.logger.Info().
			Str("until_bedtime", ladder.Format(d.Remaining, ladder.Night)).
			Stringer("region", d.Region).
			Msg("")

		for _, alert := range alerts {
			m.deps.send(m.logger, alert)
		}
		m.deps.record(ctx, m.logger, &metrics.Snapshot{
			Timestamp:  now,
			Monitor:    NameNight,
			Value:      float64(d.Remaining),
			Average:    float64(d.Minutes),
			Baseline:   float64(bedtime.Seconds()),
			State:      d.Region.String(),
			Dispatched: len(alerts) > 0,
		})
	})
}
