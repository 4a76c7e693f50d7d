package metrics

import (
	"database/sql"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
)

// SchemaVersion is bumped whenever the ticks table changes shape. A
// database at another version is backed up and recreated.
const SchemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_versions (
		version     INTEGER PRIMARY KEY,
		applied_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ticks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp   INTEGER NOT NULL CHECK (typeof(timestamp) = 'integer'),
		session     TEXT NOT NULL,
		monitor     TEXT NOT NULL,
		value       REAL NOT NULL,
		average     REAL NOT NULL,
		baseline    REAL NOT NULL,
		state       TEXT NOT NULL,
		dispatched  INTEGER NOT NULL CHECK (dispatched IN (0, 1))
	)`,
	`CREATE INDEX IF NOT EXISTS ticks_monitor_timestamp ON ticks (monitor, timestamp)`,
}

var managedTables = []string{"ticks", "schema_versions"}

const (
	insertTickSQL = `INSERT INTO ticks
		(timestamp, session, monitor, value, average, baseline, state, dispatched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	summarizeSQL = `SELECT monitor, COUNT(*), COALESCE(SUM(dispatched), 0)
		FROM ticks
		WHERE timestamp >= ?
		GROUP BY monitor
		ORDER BY monitor`
)

// inTx runs fn in a transaction, committing when it returns nil.
func inTx(db *sql.DB, log logger.Logger, code errors.ErrorCode, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.New().Wrap(code, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Debug().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.New().Wrap(code, err)
	}

	return nil
}

// InitSchema creates the tables and records the current version.
func InitSchema(db *sql.DB, log logger.Logger) error {
	err := inTx(db, log, ErrSchemaInitFailed, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(stmt); err != nil {
				return stageError(ErrSchemaInitFailed, "create", stmt, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`, SchemaVersion); err != nil {
			return stageError(ErrSchemaInitFailed, "record_version", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("version", SchemaVersion).Msg("Metrics schema created")

	return nil
}

// GetSchemaVersion returns the recorded schema version, 0 for an empty
// database.
func GetSchemaVersion(db *sql.DB) (int, error) {
	exists, err := TableExists(db, "schema_versions")
	if err != nil || !exists {
		return 0, err
	}

	var version int
	err = db.QueryRow(`SELECT version FROM schema_versions ORDER BY version DESC LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, stageError(ErrSchemaValidationFailed, "get_version", "", err)
	}

	return version, nil
}

func TableExists(db *sql.DB, table string) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`, table).Scan(&exists)
	if err != nil {
		return false, stageError(ErrSchemaValidationFailed, "check_table", table, err)
	}

	return exists, nil
}
