package usage

import "codeberg.org/mutker/screenwell/internal/errors"

const (
	ErrInvalidPath   = errors.ErrorCode("usage_invalid_path")
	ErrStorageAccess = errors.ErrorCode("usage_storage_access_failed")
	ErrCorruptRecord = errors.ErrorCode("usage_corrupt_record")
	ErrPersistFailed = errors.ErrorCode("usage_persist_failed")
)
