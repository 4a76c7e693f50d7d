package monitor

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/perception"
	"codeberg.org/mutker/screenwell/internal/settings"
	"codeberg.org/mutker/screenwell/internal/threshold"
)

const eyeCount = 2

// TensionState is threaded between tension ticks. Each eye is its own
// region with an independent window and alert time.
type TensionState struct {
	Loss    LossState
	Regions []Region
}

func NewTensionState(regions int) TensionState {
	s := TensionState{Loss: NewLossState(), Regions: make([]Region, regions)}
	for i := range s.Regions {
		s.Regions[i] = NewRegion()
	}
	return s
}

// Tension warns when the eyes narrow relative to the calibrated relaxed
// face, measured as the width/height ratio of each eye box.
type Tension struct {
	deps       Deps
	source     perception.Source
	interval   time.Duration
	classifier threshold.Classifier
	logger     logger.Logger
}

func NewTension(deps Deps, source perception.Source, interval time.Duration) *Tension {
	return &Tension{
		deps:       deps,
		source:     source,
		interval:   interval,
		classifier: deps.classifier(),
		logger:     logger.Component(NameTension),
	}
}

func (*Tension) Name() string {
	return NameTension
}

// Step advances s by one frame. Eyes beyond the number of baselines are
// ignored.
func (m *Tension) Step(s TensionState, det perception.Detection, baselines []float64, now time.Time) (TensionState, Tick, error) {
	var tick Tick

	switch det.Kind {
	case perception.NoDetection, perception.ManyDetections:
		s.Loss, tick.Alerts = s.Loss.mark(det.Kind, now, eyesLoss)
		return s, tick, nil

	case perception.OneDetection:
		ratios, err := perception.EyeRatios(det)
		if err != nil {
			return s, tick, err
		}

		regions := make([]Region, len(s.Regions))
		copy(regions, s.Regions)

		for i, ratio := range ratios {
			if i >= len(baselines) || i >= len(regions) {
				break
			}

			var sample Sample
			regions[i], sample = regions[i].observe(m.classifier, ratio, baselines[i], now)
			sample.Region = fmt.Sprintf("eye%d", i+1)
			tick.Samples = append(tick.Samples, sample)
			if sample.Dispatched {
				tick.Alerts = append(tick.Alerts, tensionAlert)
			}
		}

		s.Regions = regions
		return s, tick, nil
	}

	return s, tick, errors.New().WithData(perception.ErrUnexpectedResult, det.Kind.String())
}

func (m *Tension) preflight() ([]float64, error) {
	errFactory := errors.New()

	baselines, err := m.deps.Settings.Float64Slice(settings.KeyTensionRatios)
	if err != nil || !TensionCalibrated(baselines) {
		m.deps.send(m.logger, tensionUncalibrated)
		if err != nil {
			return nil, errFactory.Wrap(ErrUncalibrated, err)
		}
		return nil, errFactory.WithData(ErrUncalibrated, NameTension)
	}

	asset := m.deps.Settings.AssetPath(settings.TensionCalibrationImage)
	if !assetExists(asset) {
		m.deps.send(m.logger, tensionNoAsset)
		return nil, errFactory.WithData(ErrMissingAsset, asset)
	}

	return baselines, nil
}

// TensionCalibrated reports whether baselines hold a positive relaxed ratio
// for each of the two eyes, as calibration stores them.
func TensionCalibrated(baselines []float64) bool {
	if len(baselines) != eyeCount {
		return false
	}
	for _, b := range baselines {
		if !threshold.Calibrated(b) {
			return false
		}
	}
	return true
}

func (m *Tension) Run(ctx context.Context) error {
	defer m.source.Close()

	baselines, err := m.preflight()
	if err != nil {
		return err
	}

	m.logger.Info().
		Floats64("baselines", baselines).
		Dur("interval", m.interval).
		Msg("Eye strain prevention started")

	state := NewTensionState(len(baselines))

	return every(ctx, m.interval, true, func() {
		det, err := m.source.Detect(ctx)
		if err != nil {
			if ctx.Err() == nil {
				m.logger.Warn().Err(err).Msg("Failed to receive frame")
			}
			return
		}

		now := m.deps.now()
		next, tick, err := m.Step(state, det, baselines, now)
		if err != nil {
			m.logger.Warn().Err(err).Msg("Unusable detection")
			return
		}
		state = next

		for _, s := range tick.Samples {
			m.logger.Debug().
				Str("region", s.Region).
				Float64("ratio", s.Value).
				Float64("average", s.Average).
				Float64("baseline", s.Baseline).
				Stringer("state", s.State).
				Msg("")
		}

		m.deps.emit(ctx, m.logger, m.Name(), now, tick)
	})
}
