package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const defaultDirPerm = 0o755

// Store is a JSON settings document. Writes are last-writer-wins; other
// processes may change the file at any time and Watch picks that up.
type Store struct {
	path   string
	logger logger.Logger

	mu sync.RWMutex
	v  *viper.Viper
}

// Open loads the settings file at path, creating it from Defaults when it
// does not exist yet.
func Open(path string) (*Store, error) {
	errFactory := errors.New()

	if path == "" {
		return nil, errFactory.New(ErrInvalidPath)
	}

	s := &Store{
		path:   path,
		logger: logger.Component("settings"),
		v:      newViper(path),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
			return nil, errFactory.Wrap(ErrWriteFailed, err)
		}
		if err := s.v.WriteConfigAs(path); err != nil {
			return nil, errFactory.Wrap(ErrWriteFailed, err)
		}
		s.logger.Info().Str("path", path).Msg("Created default settings")
	}

	if err := s.v.ReadInConfig(); err != nil {
		return nil, errFactory.Wrap(ErrReadFailed, err)
	}

	return s, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	return v
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// AssetPath resolves a calibration asset stored next to the settings file.
func (s *Store) AssetPath(name string) string {
	return filepath.Join(filepath.Dir(s.path), name)
}

// Get returns the value under key, or def when the key is unset.
func (s *Store) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.v.IsSet(key) {
		return def
	}

	return s.v.Get(key)
}

// Set stores value under key and writes the document.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(key, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return errors.New().Wrap(ErrWriteFailed, err)
	}

	return nil
}

func (s *Store) String(key string) string {
	return cast.ToString(s.Get(key, ""))
}

func (s *Store) Float64(key string) float64 {
	return cast.ToFloat64(s.Get(key, 0))
}

func (s *Store) Int(key string) int {
	return cast.ToInt(s.Get(key, 0))
}

// Float64Slice reads a numeric list. A scalar or malformed value is an error.
func (s *Store) Float64Slice(key string) ([]float64, error) {
	errFactory := errors.New()

	raw := s.Get(key, nil)
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []float64:
		return append([]float64(nil), v...), nil
	}

	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, errFactory.WithData(ErrInvalidValue, key)
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, errFactory.WithData(ErrInvalidValue, key)
		}
		out = append(out, f)
	}

	return out, nil
}

// Enabled reports the switch of a feature.
func (s *Store) Enabled(feature string) bool {
	return cast.ToBool(s.Get(EnableKey(feature), false))
}

// Reload re-reads the document from disk.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := newViper(s.path)
	if err := v.ReadInConfig(); err != nil {
		return errors.New().Wrap(ErrReadFailed, err)
	}
	s.v = v

	return nil
}

// Watch reloads the document whenever the file changes on disk and calls
// onChange after each successful reload. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	errFactory := errors.New()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errFactory.Wrap(ErrWatchFailed, err)
	}
	defer watcher.Close()

	// Editors and our own writes replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return errFactory.Wrap(ErrWatchFailed, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to reload settings")
				continue
			}
			s.logger.Debug().Str("op", event.Op.String()).Msg("Settings reloaded")
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(err).Msg("Settings watcher error")
		}
	}
}
