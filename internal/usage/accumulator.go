package usage

import (
	"sync"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
)

const (
	defaultPersistAttempts = 3
	defaultPersistBackoff  = 200 * time.Millisecond
)

// Accumulator adds elapsed wall-clock time to the daily record on every
// tick and persists it straight away.
type Accumulator struct {
	store    Store
	attempts int
	backoff  time.Duration
	logger   logger.Logger

	mu     sync.Mutex
	record Record
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithPersistRetry sets how many times a failed save is attempted and the
// initial backoff between attempts.
func WithPersistRetry(attempts int, backoff time.Duration) Option {
	return func(a *Accumulator) {
		if attempts > 0 {
			a.attempts = attempts
		}
		if backoff >= 0 {
			a.backoff = backoff
		}
	}
}

// Open loads the stored record and starts a session at now. A missing or
// stale record is replaced by a fresh one for today.
func Open(store Store, now time.Time, opts ...Option) (*Accumulator, error) {
	a := &Accumulator{
		store:    store,
		attempts: defaultPersistAttempts,
		backoff:  defaultPersistBackoff,
		logger:   logger.Component("usage"),
	}
	for _, opt := range opts {
		opt(a)
	}

	rec, found, err := store.Load()
	if err != nil {
		if !errors.HasCode(err, ErrCorruptRecord) {
			return nil, err
		}
		a.logger.Warn().Err(err).Msg("Usage record unreadable, starting a new one")
		found = false
	}

	switch {
	case !found:
		rec = NewRecord(now)
	case !rec.SameDay(now):
		a.logger.Info().
			Time("stored_date", rec.Date).
			Int64("stored_seconds", rec.SecondsUsed).
			Msg("New day detected, resetting usage counter")
		rec = NewRecord(now)
	default:
		// Time between the previous process exiting and now is not usage.
		rec.SessionStart = now
	}

	a.record = rec

	return a, nil
}

// Tick adds the whole seconds since the session start to the record,
// advances the session start by the same amount and persists the result. On a new local day the
// counter restarts from zero. The in-memory record keeps the accumulated
// time even when persisting fails.
func (a *Accumulator) Tick(now time.Time) (Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.record.SameDay(now) {
		a.logger.Info().Int64("previous_seconds", a.record.SecondsUsed).Msg("Day boundary crossed, resetting usage counter")
		a.record = NewRecord(now)
	} else {
		elapsed := int64(now.Sub(a.record.SessionStart) / time.Second)
		if elapsed < 0 {
			a.logger.Warn().Int64("elapsed", elapsed).Msg("Clock moved backwards, ignoring interval")
			a.record.SessionStart = now
		} else {
			// The sub-second remainder carries into the next tick.
			a.record.SecondsUsed += elapsed
			a.record.SessionStart = a.record.SessionStart.Add(time.Duration(elapsed) * time.Second)
		}
		a.record.Date = now
	}

	return a.record, a.persist()
}

// Flush is Tick for shutdown: the final interval is added and saved.
func (a *Accumulator) Flush(now time.Time) (Record, error) {
	rec, err := a.Tick(now)
	if err != nil {
		a.logger.Error().Err(err).Int64("seconds_used", rec.SecondsUsed).Msg("Failed to flush usage on shutdown")
		return rec, err
	}

	a.logger.Debug().Int64("seconds_used", rec.SecondsUsed).Msg("Usage flushed")

	return rec, nil
}

// Record returns the current in-memory record.
func (a *Accumulator) Record() Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record
}

func (a *Accumulator) persist() error {
	backoff := a.backoff

	var err error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		if err = a.store.Save(a.record); err == nil {
			return nil
		}

		a.logger.Warn().Err(err).Int("attempt", attempt).Msg("Failed to persist usage record")
		if attempt < a.attempts && backoff > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	return errors.New().Wrap(ErrPersistFailed, err)
}
