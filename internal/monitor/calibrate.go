package monitor

import (
	"context"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/perception"
	"codeberg.org/mutker/screenwell/internal/settings"
)

// CalibrateDistance measures the face area in the distance calibration
// image and stores it as the healthy baseline. Exactly one face must be
// visible.
func CalibrateDistance(ctx context.Context, deps Deps, src perception.ImageSource) (float64, error) {
	log := logger.Component(NameDistance)
	errFactory := errors.New()

	asset := deps.Settings.AssetPath(settings.DistanceCalibrationImage)
	if !assetExists(asset) {
		deps.send(log, distanceNoAsset)
		return 0, errFactory.WithData(ErrMissingAsset, asset)
	}

	det, err := src.DetectImage(ctx, asset)
	if err != nil {
		return 0, errFactory.Wrap(ErrCalibrationFailed, err)
	}

	switch det.Kind {
	case perception.NoDetection:
		deps.send(log, calibrateNoFace)
		return 0, errFactory.WithData(ErrCalibrationFailed, det.Kind.String())
	case perception.ManyDetections:
		deps.send(log, calibrateManyFaces)
		return 0, errFactory.WithData(ErrCalibrationFailed, det.Kind.String())
	}

	area, err := perception.FaceArea(det)
	if err != nil {
		return 0, errFactory.Wrap(ErrCalibrationFailed, err)
	}

	// Stored as whole pixels.
	baseline := float64(int64(area))
	if baseline <= 0 {
		return 0, errFactory.WithData(ErrCalibrationFailed, area)
	}

	if err := deps.Settings.Set(settings.KeyDistanceArea, int64(baseline)); err != nil {
		return 0, err
	}

	log.Info().Float64("area", baseline).Msg("Healthy distance area saved")

	return baseline, nil
}

// CalibrateTension measures both eye ratios in the relaxed face image and
// stores them as the per-eye baselines. Exactly two eyes must be visible.
func CalibrateTension(ctx context.Context, deps Deps, src perception.ImageSource) ([]float64, error) {
	log := logger.Component(NameTension)
	errFactory := errors.New()

	asset := deps.Settings.AssetPath(settings.TensionCalibrationImage)
	if !assetExists(asset) {
		deps.send(log, tensionNoAsset)
		return nil, errFactory.WithData(ErrMissingAsset, asset)
	}

	det, err := src.DetectImage(ctx, asset)
	if err != nil {
		return nil, errFactory.Wrap(ErrCalibrationFailed, err)
	}

	switch det.Kind {
	case perception.NoDetection:
		deps.send(log, calibrateNoEyes)
		return nil, errFactory.WithData(ErrCalibrationFailed, det.Kind.String())
	case perception.ManyDetections:
		deps.send(log, calibrateManyEyes)
		return nil, errFactory.WithData(ErrCalibrationFailed, det.Kind.String())
	}

	ratios, err := perception.EyeRatios(det)
	if err != nil {
		return nil, errFactory.Wrap(ErrCalibrationFailed, err)
	}

	if err := deps.Settings.Set(settings.KeyTensionRatios, ratios); err != nil {
		return nil, err
	}

	log.Info().Floats64("ratios", ratios).Msg("Relaxed eye ratios saved")

	return ratios, nil
}
