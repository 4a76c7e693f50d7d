// Package ladder schedules staged warnings against a deadline.
package ladder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
)

const (
	// CheckInterval is the tick cadence the ladder resolution assumes.
	// Rungs are matched on whole minutes, so ticking slower than this
	// can skip rungs.
	CheckInterval = 60 * time.Second

	secondsPerMinute = 60
	secondsPerHour   = 3600
	atLimitWindow    = -60
)

// Ladder is a descending list of warning marks in minutes.
type Ladder []int

// Default is the shared warning ladder.
var Default = Ladder{120, 60, 30, 15, 5, 1}

// Region classifies the remaining time of a tick.
type Region int

const (
	// BeforeLimit covers remaining > 0.
	BeforeLimit Region = iota
	// AtLimit covers -60s < remaining <= 0.
	AtLimit
	// OverLimit covers remaining <= -60s.
	OverLimit
)

func (r Region) String() string {
	switch r {
	case BeforeLimit:
		return "before_limit"
	case AtLimit:
		return "at_limit"
	case OverLimit:
		return "over_limit"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating one tick.
type Decision struct {
	Region    Region
	Remaining int64 // seconds, negative past the deadline
	Minutes   int64 // floor(Remaining / 60)
	Rung      int   // matched rung, 0 when none
	Fire      bool
}

// Evaluate places remaining (in seconds) in its region and decides whether
// this tick fires. Before the limit, the first rung equal to the whole
// minutes left fires. In the one-minute window at the limit every tick
// fires. Past it, a rung equal to the whole minutes over fires.
func (l Ladder) Evaluate(remaining int64) Decision {
	d := Decision{
		Remaining: remaining,
		Minutes:   floorDiv(remaining, secondsPerMinute),
	}

	switch {
	case remaining > 0:
		d.Region = BeforeLimit
		d.Rung, d.Fire = l.match(d.Minutes)
	case remaining > atLimitWindow:
		d.Region = AtLimit
		d.Fire = true
	default:
		d.Region = OverLimit
		d.Rung, d.Fire = l.match(-d.Minutes)
	}

	return d
}

func (l Ladder) match(minutes int64) (int, bool) {
	for _, rung := range l {
		if int64(rung) == minutes {
			return rung, true
		}
	}

	return 0, false
}

// Largest returns the biggest rung, or 0 for an empty ladder.
func (l Ladder) Largest() int {
	largest := 0
	for _, rung := range l {
		largest = max(largest, rung)
	}

	return largest
}

// Rollover moves deadline forward one day once now is further past it
// than the largest rung, so a long-passed deadline means tomorrow's.
func (l Ladder) Rollover(deadline, now time.Time) time.Time {
	grace := time.Duration(l.Largest()) * time.Minute
	if deadline.Sub(now) < -grace {
		return deadline.AddDate(0, 0, 1)
	}

	return deadline
}

// Deadline resolves the occurrence of at that now is measured against.
// Yesterday's occurrence holds while now is within the largest rung past
// it, so past-deadline rungs keep firing after midnight. Otherwise today's
// occurrence is used, after Rollover.
func (l Ladder) Deadline(at TimeOfDay, now time.Time) time.Time {
	grace := time.Duration(l.Largest()) * time.Minute
	today := at.On(now)
	if prev := today.AddDate(0, 0, -1); now.Sub(prev) <= grace {
		return prev
	}

	return l.Rollover(today, now)
}

// TimeOfDay is a wall-clock hour and minute.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay reads "HH:MM". A bare number is taken as whole hours.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	errFactory := errors.New()
	s = strings.TrimSpace(s)

	hourPart, minutePart, found := strings.Cut(s, ":")
	if !found {
		minutePart = "0"
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return TimeOfDay{}, errFactory.WithData(ErrInvalidTimeOfDay, s)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return TimeOfDay{}, errFactory.WithData(ErrInvalidTimeOfDay, s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, errFactory.WithData(ErrInvalidTimeOfDay, s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Seconds returns the time of day as a duration since midnight in seconds.
func (t TimeOfDay) Seconds() int64 {
	return int64(t.Hour*secondsPerHour + t.Minute*secondsPerMinute)
}

// On returns the instant of t on the local calendar day of now.
func (t TimeOfDay) On(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, now.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
