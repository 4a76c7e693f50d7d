package monitor

import (
	"os"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/perception"
	"codeberg.org/mutker/screenwell/internal/threshold"
)

// OpenCamera starts the detector command for a camera monitor. When it
// cannot be started the user is told and a setup error is returned.
func OpenCamera(deps Deps, command string, mode perception.Mode) (*perception.CommandSource, error) {
	src, err := perception.NewCommandSource(command, mode)
	if err != nil {
		log := logger.Component("camera")
		log.Error().Err(err).Str("command", command).Msg("Failed to open camera")
		deps.send(log, cameraUnavailable)
		return nil, errors.New().Wrap(ErrCameraUnavailable, err)
	}

	return src, nil
}

// LossState holds the detection-loss rings of a camera monitor, one for
// frames without a subject and one for frames with too many.
type LossState struct {
	Absent  threshold.Debouncer
	Crowded threshold.Debouncer
}

func NewLossState() LossState {
	return LossState{
		Absent:  threshold.NewDebouncer(threshold.DefaultWindowSize, threshold.DefaultDebounceSpan),
		Crowded: threshold.NewDebouncer(threshold.DefaultWindowSize, threshold.DefaultDebounceSpan),
	}
}

// mark records an anomalous frame of kind and returns the alert to send
// once the anomaly has persisted.
func (s LossState) mark(kind perception.Kind, now time.Time, texts lossTexts) (LossState, []Alert) {
	var fire bool
	var alert Alert

	switch kind {
	case perception.NoDetection:
		s.Absent, fire = s.Absent.Mark(now)
		alert = texts.absent
	case perception.ManyDetections:
		s.Crowded, fire = s.Crowded.Mark(now)
		alert = texts.crowded
	default:
		return s, nil
	}

	if !fire {
		return s, nil
	}

	return s, []Alert{alert}
}

// Region is the classification state of one monitored body region.
type Region struct {
	Window    threshold.Window
	State     threshold.State
	LastAlert time.Time
}

func NewRegion() Region {
	return Region{Window: threshold.NewWindow(threshold.DefaultWindowSize)}
}

// observe smooths value into the window and classifies the average
// against baseline.
func (r Region) observe(c threshold.Classifier, value, baseline float64, now time.Time) (Region, Sample) {
	window, avg := r.Window.Push(value)
	verdict := c.Classify(avg, baseline, r.State, r.LastAlert, now)

	next := Region{Window: window, State: verdict.State, LastAlert: verdict.LastAlert}

	return next, Sample{
		Value:      value,
		Average:    avg,
		Baseline:   baseline,
		State:      verdict.State,
		Dispatched: verdict.Dispatch,
	}
}

func assetExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
