package perception

import "codeberg.org/mutker/screenwell/internal/errors"

const (
	ErrNoCommand        = errors.ErrorCode("perception_no_command")
	ErrDetectorNotFound = errors.ErrorCode("perception_detector_not_found")
	ErrDetectorFailed   = errors.ErrorCode("perception_detector_failed")
	ErrInvalidOutput    = errors.ErrorCode("perception_invalid_output")
	ErrNotEnoughPoints  = errors.ErrorCode("perception_not_enough_keypoints")
	ErrDegenerateBox    = errors.ErrorCode("perception_degenerate_box")
	ErrUnexpectedResult = errors.ErrorCode("perception_unexpected_result")
)
