package notify

import "codeberg.org/mutker/screenwell/internal/errors"

const (
	ErrUnknownDispatcher = errors.ErrorCode("notify_unknown_dispatcher")
	ErrBusUnavailable    = errors.ErrorCode("notify_bus_unavailable")
	ErrDispatchFailed    = errors.ErrorCode("notify_dispatch_failed")
)
