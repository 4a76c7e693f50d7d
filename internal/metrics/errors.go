package metrics

import "codeberg.org/mutker/screenwell/internal/errors"

const (
	ErrInvalidConfig   = errors.ErrInvalidConfig
	ErrInvalidDBPath   = errors.ErrorCode("metrics_invalid_db_path")
	ErrInvalidSnapshot = errors.ErrorCode("metrics_invalid_snapshot")

	ErrSchemaInitFailed       = errors.ErrorCode("metrics_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("metrics_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("metrics_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("metrics_transaction_failed")
	ErrQueryFailed            = errors.ErrorCode("metrics_query_failed")

	ErrStorageInit      = errors.ErrInitMetrics
	ErrStorageClose     = errors.ErrCloseMetrics
	ErrCollection       = errors.ErrCollectMetrics
	ErrOperationTimeout = errors.ErrTimeout
)

// stage names the step of a storage operation that failed.
type stage struct {
	Stage  string
	Target string `json:",omitempty"`
}

func stageError(code errors.ErrorCode, name, target string, err error) error {
	return errors.New().Wrap(code, err).WithData(stage{Stage: name, Target: target})
}
