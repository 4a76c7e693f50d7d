package notify

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
)

const commandTimeout = 5 * time.Second

// New returns the dispatcher for kind. KindAuto picks osascript on macOS
// and the session bus elsewhere, falling back to the log when no bus is
// reachable.
func New(kind Kind, appName string) (Dispatcher, error) {
	errFactory := errors.New()

	switch kind {
	case KindLog:
		return NewLogDispatcher(logger.Component("notify")), nil
	case KindOSAScript:
		return NewOSAScriptDispatcher(), nil
	case KindDBus:
		return NewDBusDispatcher(appName)
	case KindAuto, "":
		if runtime.GOOS == "darwin" {
			return NewOSAScriptDispatcher(), nil
		}
		d, err := NewDBusDispatcher(appName)
		if err != nil {
			logger.Warn().Err(err).Msg("Session bus unavailable, notifications will only be logged")
			return NewLogDispatcher(logger.Component("notify")), nil
		}
		return d, nil
	default:
		return nil, errFactory.WithData(ErrUnknownDispatcher, string(kind))
	}
}

// LogDispatcher writes notifications to the log instead of the desktop.
type LogDispatcher struct {
	logger logger.Logger
}

func NewLogDispatcher(log logger.Logger) *LogDispatcher {
	return &LogDispatcher{logger: log}
}

func (d *LogDispatcher) Notify(title, message string) error {
	d.logger.Warn().Str("title", title).Str("message", message).Msg("Notification")
	return nil
}

// OSAScriptDispatcher shows notifications through AppleScript.
type OSAScriptDispatcher struct {
	binary string
}

func NewOSAScriptDispatcher() *OSAScriptDispatcher {
	return &OSAScriptDispatcher{binary: "osascript"}
}

func (d *OSAScriptDispatcher) Notify(title, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	//nolint:gosec // G204: script is built from escaped string literals
	cmd := exec.CommandContext(ctx, d.binary, "-e", appleScript(title, message))
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.New().WithData(ErrDispatchFailed, struct {
			Error  string
			Output string
		}{
			Error:  err.Error(),
			Output: strings.TrimSpace(string(out)),
		})
	}

	return nil
}

func appleScript(title, message string) string {
	return `display notification "` + escapeAppleScript(message) +
		`" with title "` + escapeAppleScript(title) + `"`
}

func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
