package settings

import "codeberg.org/mutker/screenwell/internal/errors"

const (
	ErrInvalidPath  = errors.ErrorCode("settings_invalid_path")
	ErrReadFailed   = errors.ErrorCode("settings_read_failed")
	ErrWriteFailed  = errors.ErrorCode("settings_write_failed")
	ErrWatchFailed  = errors.ErrorCode("settings_watch_failed")
	ErrInvalidValue = errors.ErrorCode("settings_invalid_value")
)
