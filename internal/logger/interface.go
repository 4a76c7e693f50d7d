package logger

import "codeberg.org/mutker/screenwell/internal/errors"

// Logger is the leveled event API handed to components.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
}
