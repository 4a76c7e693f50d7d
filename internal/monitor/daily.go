package monitor

import (
	"context"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/ladder"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/metrics"
	"codeberg.org/mutker/screenwell/internal/settings"
	"codeberg.org/mutker/screenwell/internal/usage"
)

// Daily tracks the screen time used today against the daily budget.
type Daily struct {
	deps     Deps
	store    usage.Store
	ladder   ladder.Ladder
	interval time.Duration
	opts     []usage.Option
	logger   logger.Logger
}

func NewDaily(deps Deps, store usage.Store, interval time.Duration, opts ...usage.Option) *Daily {
	return &Daily{
		deps:     deps,
		store:    store,
		ladder:   ladder.Default,
		interval: interval,
		opts:     opts,
		logger:   logger.Component(NameDaily),
	}
}

func (*Daily) Name() string {
	return NameDaily
}

// Step evaluates the record against the budget.
func (m *Daily) Step(rec usage.Record, budget ladder.TimeOfDay) (ladder.Decision, []Alert) {
	d := m.ladder.Evaluate(budget.Seconds() - rec.SecondsUsed)

	switch {
	case !d.Fire:
		return d, nil
	case d.Region == ladder.BeforeLimit:
		return d, []Alert{dailyRemaining(d.Remaining)}
	case d.Region == ladder.AtLimit:
		return d, []Alert{dailyReached}
	default:
		return d, []Alert{dailyOver(d.Rung)}
	}
}

// budget reads the limit setting, keeping last when it does not parse.
func (m *Daily) budget(last ladder.TimeOfDay) ladder.TimeOfDay {
	raw := m.deps.Settings.String(settings.KeyDailyLimitTime)
	tod, err := ladder.ParseTimeOfDay(raw)
	if err != nil {
		m.logger.Warn().Err(err).Str("value", raw).Str("using", last.String()).Msg("Invalid daily limit")
		return last
	}
	return tod
}

func (m *Daily) Run(ctx context.Context) error {
	errFactory := errors.New()

	budget, err := ladder.ParseTimeOfDay(m.deps.Settings.String(settings.KeyDailyLimitTime))
	if err != nil {
		return errFactory.Wrap(ErrInvalidLimit, err)
	}

	acc, err := usage.Open(m.store, m.deps.now(), m.opts...)
	if err != nil {
		return err
	}

	m.logger.Info().
		Str("limit", budget.String()).
		Dur("interval", m.interval).
		Msg("Daily limit started")

	loopErr := every(ctx, m.interval, true, func() {
		now := m.deps.now()

		rec, err := acc.Tick(now)
		if err != nil {
			m.logger.Error().Err(err).Msg("Usage not persisted, retrying next tick")
		}

		budget = m.budget(budget)
		d, alerts := m.Step(rec, budget)

		m.logger.Info().
			Str("used", ladder.Format(rec.SecondsUsed, ladder.Daily)).
			Str("limit", ladder.Format(budget.Seconds(), ladder.Daily)).
			Stringer("region", d.Region).
			Msg("")

		for _, alert := range alerts {
			m.deps.send(m.logger, alert)
		}
		m.deps.record(ctx, m.logger, &metrics.Snapshot{
			Timestamp:  now,
			Monitor:    NameDaily,
			Value:      float64(rec.SecondsUsed),
			Average:    float64(d.Remaining),
			Baseline:   float64(budget.Seconds()),
			State:      d.Region.String(),
			Dispatched: len(alerts) > 0,
		})
	})

	if _, err := acc.Flush(m.deps.now()); err != nil {
		return err
	}

	return loopErr
}
