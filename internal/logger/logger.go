// Package logger is the process-wide zerolog logger. Output is a console
// writer; timestamps and colors are dropped under a service manager,
// which stamps lines itself.
package logger

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init configures the logger for stdout at the named level.
func Init(level string, isService bool) {
	InitWithWriter(os.Stdout, level, isService)
}

// InitWithWriter is Init with an explicit output.
func InitWithWriter(out io.Writer, level string, isService bool) {
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	if isService {
		output.NoColor = true
		output.FormatTimestamp = func(any) string { return "" }
	}

	log = zerolog.New(output).With().Timestamp().Logger()
	SetLogLevel(ParseLevel(level))
}

// ParseLevel maps a configured level name to a LogLevel. Unknown names
// mean info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warning", "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService reports whether the process runs under systemd or launchd
// rather than from a terminal.
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	for _, key := range []string{"INVOCATION_ID", "SERVICE_NAME", "XPC_SERVICE_NAME"} {
		if v := os.Getenv(key); v != "" && v != "0" {
			return true
		}
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

func Debug() *LogEvent { return &LogEvent{log.Debug()} }
func Info() *LogEvent  { return &LogEvent{log.Info()} }
func Warn() *LogEvent  { return &LogEvent{log.Warn()} }
func Error() *LogEvent { return &LogEvent{log.Error()} }

// Fatal logs and exits the process once the event is sent.
func Fatal() *LogEvent { return &LogEvent{log.Fatal()} }

// ErrorWithCode logs err with its code and payload as separate fields.
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{withCode(log.Error(), err)}
}

func FatalWithCode(err errors.Error) *LogEvent {
	return &LogEvent{withCode(log.Fatal(), err)}
}

func withCode(e *zerolog.Event, err errors.Error) *zerolog.Event {
	e = e.Str("error_code", string(err.Code())).Str("error", err.Error())
	if data := err.Data(); data != nil {
		e = e.Interface("error_data", data)
	}

	return e
}

// Component returns a Logger whose events carry a component field.
func Component(name string) Logger {
	return componentLogger(name)
}

type componentLogger string

func (c componentLogger) Debug() *LogEvent { return c.tag(log.Debug()) }
func (c componentLogger) Info() *LogEvent  { return c.tag(log.Info()) }
func (c componentLogger) Warn() *LogEvent  { return c.tag(log.Warn()) }
func (c componentLogger) Error() *LogEvent { return c.tag(log.Error()) }

func (c componentLogger) ErrorWithCode(err errors.Error) *LogEvent {
	return c.tag(withCode(log.Error(), err))
}

func (c componentLogger) tag(e *zerolog.Event) *LogEvent {
	return &LogEvent{e.Str("component", string(c))}
}
