package threshold

import "time"

const (
	// DefaultFactor flags a measurement 20% worse than its baseline.
	DefaultFactor = 1.2
	// DefaultCooldown is the minimum spacing of repeated alerts while a
	// monitor stays in the Alert state.
	DefaultCooldown = 5 * time.Second
)

// State is the binary classification of a monitored region.
type State int

const (
	Nominal State = iota
	Alert
)

func (s State) String() string {
	switch s {
	case Nominal:
		return "nominal"
	case Alert:
		return "alert"
	default:
		return "unknown"
	}
}

// Classifier compares a smoothed value to factor*baseline.
type Classifier struct {
	Factor   float64
	Cooldown time.Duration
}

// Verdict is the outcome of one classification. State always replaces the
// prior state; Dispatch tells the caller to send an alert.
type Verdict struct {
	State     State
	LastAlert time.Time
	Dispatch  bool
}

func NewClassifier() Classifier {
	return Classifier{Factor: DefaultFactor, Cooldown: DefaultCooldown}
}

// Classify derives the next state and decides whether to alert. An alert
// goes out on every Nominal to Alert edge and, while the state stays
// Alert, once the cooldown since lastAlert has elapsed. Recovery is silent.
// Callers must not pass an uncalibrated (zero) baseline.
func (c Classifier) Classify(value, baseline float64, prior State, lastAlert, now time.Time) Verdict {
	factor := c.Factor
	if factor <= 0 {
		factor = DefaultFactor
	}

	state := Nominal
	if value > factor*baseline {
		state = Alert
	}

	v := Verdict{State: state, LastAlert: lastAlert}
	if state == Alert && (state != prior || now.Sub(lastAlert) > c.Cooldown) {
		v.Dispatch = true
		v.LastAlert = now
	}

	return v
}

// Calibrated reports whether baseline can be used for classification.
func Calibrated(baseline float64) bool {
	return baseline > 0
}
