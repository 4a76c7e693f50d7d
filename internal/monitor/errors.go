package monitor

import "codeberg.org/mutker/screenwell/internal/errors"

const (
	ErrUncalibrated      = errors.ErrUncalibrated
	ErrMissingAsset      = errors.ErrMissingAsset
	ErrInvalidInterval   = errors.ErrInvalidInterval
	ErrUnknownMonitor    = errors.ErrUnknownMonitor
	ErrInvalidLimit      = errors.ErrorCode("monitor_invalid_limit")
	ErrCalibrationFailed = errors.ErrorCode("monitor_calibration_failed")
	ErrFilterUnavailable = errors.ErrorCode("monitor_filter_unavailable")
	ErrFilterFailed      = errors.ErrorCode("monitor_filter_failed")
	ErrCameraUnavailable = errors.ErrorCode("monitor_camera_unavailable")
)

// IsSetupError reports whether err means the monitor declined to start
// because it is not calibrated, lacks its calibration asset or cannot open
// the camera.
func IsSetupError(err error) bool {
	return errors.HasCode(err, ErrUncalibrated) ||
		errors.HasCode(err, ErrMissingAsset) ||
		errors.HasCode(err, ErrCameraUnavailable)
}
