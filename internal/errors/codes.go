package errors

const (
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"
	ErrInitFailed      ErrorCode = "initialization_failed"

	// Process
	ErrAlreadyRunning ErrorCode = "already_running"

	// Configuration
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Monitors
	ErrUncalibrated   ErrorCode = "uncalibrated"
	ErrMissingAsset   ErrorCode = "calibration_asset_missing"
	ErrUnknownMonitor ErrorCode = "unknown_monitor"

	// Metrics
	ErrInitMetrics    ErrorCode = "init_metrics_failed"
	ErrCollectMetrics ErrorCode = "collect_metrics_failed"
	ErrCloseMetrics   ErrorCode = "close_metrics_failed"
)

var messages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrOperationFailed: "Operation failed",
	ErrTimeout:         "Operation timed out",
	ErrInitFailed:      "Initialization failed",
	ErrAlreadyRunning:  "Monitor is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidInterval: "Invalid interval",
	ErrInvalidLogLevel: "Invalid log level",
	ErrUncalibrated:    "Monitor is not calibrated",
	ErrMissingAsset:    "Calibration image not found",
	ErrUnknownMonitor:  "Unknown monitor",
	ErrInitMetrics:     "Failed to initialize metrics",
	ErrCollectMetrics:  "Failed to record metrics",
	ErrCloseMetrics:    "Failed to close metrics database",
}

// Message returns the default message of code, or the code itself when
// it has none.
func Message(code ErrorCode) string {
	if msg, ok := messages[code]; ok {
		return msg
	}

	return string(code)
}
