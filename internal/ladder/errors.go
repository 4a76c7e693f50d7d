package ladder

import "codeberg.org/mutker/screenwell/internal/errors"

const (
	ErrInvalidTimeOfDay = errors.ErrorCode("ladder_invalid_time_of_day")
)
