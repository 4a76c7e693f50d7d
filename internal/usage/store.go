package usage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"codeberg.org/mutker/screenwell/internal/errors"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

// Store persists a single usage record.
type Store interface {
	// Load returns the stored record and false when none exists yet.
	Load() (Record, bool, error)
	Save(Record) error
}

// FileStore keeps the record as a JSON document.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New().New(ErrInvalidPath)
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (Record, bool, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, errFactory.Wrap(ErrStorageAccess, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, errFactory.Wrap(ErrCorruptRecord, err)
	}

	return rec, true, nil
}

// Save writes the record through a temporary file and a rename, so readers
// never observe a partial document.
func (s *FileStore) Save(rec Record) error {
	errFactory := errors.New()

	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return errFactory.WithData(ErrStorageAccess, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  dir,
			Error: err.Error(),
		})
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	if err := os.Chmod(tmpPath, defaultFilePerm); err != nil {
		os.Remove(tmpPath)
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errFactory.WithData(ErrStorageAccess, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "rename",
			Path:  s.path,
			Error: err.Error(),
		})
	}

	return nil
}
