package monitor

import (
	"context"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/perception"
	"codeberg.org/mutker/screenwell/internal/settings"
	"codeberg.org/mutker/screenwell/internal/threshold"
)

// DistanceState is threaded between distance ticks.
type DistanceState struct {
	Loss   LossState
	Region Region
}

func NewDistanceState() DistanceState {
	return DistanceState{Loss: NewLossState(), Region: NewRegion()}
}

// Distance warns when the face comes closer to the screen than the
// calibrated healthy distance, measured as the nose and eye triangle.
type Distance struct {
	deps       Deps
	source     perception.Source
	interval   time.Duration
	classifier threshold.Classifier
	logger     logger.Logger
}

func NewDistance(deps Deps, source perception.Source, interval time.Duration) *Distance {
	return &Distance{
		deps:       deps,
		source:     source,
		interval:   interval,
		classifier: deps.classifier(),
		logger:     logger.Component(NameDistance),
	}
}

func (*Distance) Name() string {
	return NameDistance
}

// Step advances s by one frame.
func (m *Distance) Step(s DistanceState, det perception.Detection, baseline float64, now time.Time) (DistanceState, Tick, error) {
	var tick Tick

	switch det.Kind {
	case perception.NoDetection, perception.ManyDetections:
		s.Loss, tick.Alerts = s.Loss.mark(det.Kind, now, faceLoss)
		return s, tick, nil

	case perception.OneDetection:
		area, err := perception.FaceArea(det)
		if err != nil {
			return s, tick, err
		}

		var sample Sample
		s.Region, sample = s.Region.observe(m.classifier, area, baseline, now)
		tick.Samples = []Sample{sample}
		if sample.Dispatched {
			tick.Alerts = []Alert{distanceAlert}
		}
		return s, tick, nil
	}

	return s, tick, errors.New().WithData(perception.ErrUnexpectedResult, det.Kind.String())
}

// preflight returns the calibrated baseline, or reports why the monitor
// cannot start.
func (m *Distance) preflight() (float64, error) {
	errFactory := errors.New()

	baseline := m.deps.Settings.Float64(settings.KeyDistanceArea)
	if !threshold.Calibrated(baseline) {
		m.deps.send(m.logger, distanceUncalibrated)
		return 0, errFactory.WithData(ErrUncalibrated, NameDistance)
	}

	asset := m.deps.Settings.AssetPath(settings.DistanceCalibrationImage)
	if !assetExists(asset) {
		m.deps.send(m.logger, distanceNoAsset)
		return 0, errFactory.WithData(ErrMissingAsset, asset)
	}

	return baseline, nil
}

func (m *Distance) Run(ctx context.Context) error {
	defer m.source.Close()

	baseline, err := m.preflight()
	if err != nil {
		return err
	}

	m.logger.Info().
		Float64("baseline", baseline).
		Dur("interval", m.interval).
		Msg("Distance check started")

	state := NewDistanceState()

	return every(ctx, m.interval, true, func() {
		det, err := m.source.Detect(ctx)
		if err != nil {
			if ctx.Err() == nil {
				m.logger.Warn().Err(err).Msg("Failed to receive frame")
			}
			return
		}

		now := m.deps.now()
		next, tick, err := m.Step(state, det, baseline, now)
		if err != nil {
			m.logger.Warn().Err(err).Msg("Unusable detection")
			return
		}
		state = next

		if len(tick.Samples) > 0 {
			s := tick.Samples[0]
			m.logger.Debug().
				Float64("area", s.Value).
				Float64("average", s.Average).
				Float64("baseline", baseline).
				Stringer("state", s.State).
				Msg("")
		}

		m.deps.emit(ctx, m.logger, m.Name(), now, tick)
	})
}
