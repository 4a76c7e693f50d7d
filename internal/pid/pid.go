// Package pid keeps one PID file per monitor so the same monitor is not
// started twice.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/screenwell/internal/errors"
)

const (
	filePrefix = "screenwell-"
	fileSuffix = ".pid"
	filePerm   = 0o600
)

// Lock is a held PID file.
type Lock struct {
	path string
}

// Path returns the PID file path for the named monitor in dir. An empty
// dir means the system temp directory.
func Path(dir, name string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, filePrefix+name+fileSuffix)
}

// Acquire writes the current process ID to the monitor's PID file. It
// fails with ErrAlreadyRunning when the file names a live process; a file
// left behind by a dead process is taken over.
func Acquire(dir, name string) (*Lock, error) {
	errFactory := errors.New()
	path := Path(dir, name)

	if running, pid := alive(path); running {
		return nil, errFactory.WithData(errors.ErrAlreadyRunning, struct {
			Monitor string
			PID     int
		}{name, pid})
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), filePerm); err != nil {
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}

	return &Lock{path: path}, nil
}

// Release removes the PID file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Running reports whether the named monitor holds its PID file.
func Running(dir, name string) bool {
	running, _ := alive(Path(dir, name))
	return running
}

func alive(path string) (bool, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, pid
	}

	return process.Signal(syscall.Signal(0)) == nil, pid
}
