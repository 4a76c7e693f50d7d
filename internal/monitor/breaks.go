package monitor

import (
	"context"
	"time"

	"codeberg.org/mutker/screenwell/internal/logger"
)

// DefaultBreakInterval follows the 20-20-20 rule.
const DefaultBreakInterval = 20 * time.Minute

// Breaks reminds the user to look away from the screen at a fixed
// interval.
type Breaks struct {
	deps     Deps
	interval time.Duration
	logger   logger.Logger
}

func NewBreaks(deps Deps, interval time.Duration) *Breaks {
	if interval <= 0 {
		interval = DefaultBreakInterval
	}

	return &Breaks{deps: deps, interval: interval, logger: logger.Component(NameBreaks)}
}

func (*Breaks) Name() string {
	return NameBreaks
}

func (m *Breaks) Run(ctx context.Context) error {
	m.logger.Info().Dur("interval", m.interval).Msg("Break reminders started")

	return every(ctx, m.interval, false, func() {
		if m.deps.send(m.logger, breakAlert) {
			m.logger.Info().Msg("Break reminder sent")
		}
	})
}
