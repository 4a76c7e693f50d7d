package monitor

import (
	"context"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/metrics"
	"codeberg.org/mutker/screenwell/internal/threshold"
)

// every calls fn on each tick of interval until ctx is done. With
// immediate set, fn also runs once before the first tick.
func every(ctx context.Context, interval time.Duration, immediate bool, fn func()) error {
	if interval <= 0 {
		return errors.New().WithData(ErrInvalidInterval, interval.String())
	}

	if immediate {
		fn()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn()
		}
	}
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d Deps) classifier() threshold.Classifier {
	c := threshold.NewClassifier()
	if d.Cooldown > 0 {
		c.Cooldown = d.Cooldown
	}
	return c
}

// send routes alert through the gateway and reports whether it went out.
func (d Deps) send(log logger.Logger, alert Alert) bool {
	if d.Sender == nil {
		return false
	}

	sent := d.Sender.Send(alert.Title, alert.Message)
	if !sent {
		log.Debug().Str("title", alert.Title).Msg("Notification suppressed by cooldown")
	}

	return sent
}

// emit sends every alert of tick and records its samples.
func (d Deps) emit(ctx context.Context, log logger.Logger, name string, now time.Time, tick Tick) {
	for _, alert := range tick.Alerts {
		d.send(log, alert)
	}

	for _, s := range tick.Samples {
		monitor := name
		if s.Region != "" {
			monitor = name + "/" + s.Region
		}
		d.record(ctx, log, &metrics.Snapshot{
			Timestamp:  now,
			Monitor:    monitor,
			Value:      s.Value,
			Average:    s.Average,
			Baseline:   s.Baseline,
			State:      s.State.String(),
			Dispatched: s.Dispatched,
		})
	}
}

func (d Deps) record(ctx context.Context, log logger.Logger, snapshot *metrics.Snapshot) {
	if d.Metrics == nil {
		return
	}
	if err := d.Metrics.Record(ctx, snapshot); err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Str("monitor", snapshot.Monitor).Msg("Failed to record snapshot")
	}
}
