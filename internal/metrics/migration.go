package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/screenwell/internal/logger"
)

// ValidateAndUpdateSchema brings db to SchemaVersion. A database at
// another version is copied into backupDir, then recreated empty.
func ValidateAndUpdateSchema(db *sql.DB, backupDir string, log logger.Logger) error {
	version, err := GetSchemaVersion(db)
	if err != nil {
		return err
	}

	switch version {
	case SchemaVersion:
		log.Debug().Int("version", version).Msg("Metrics schema is current")
		return nil
	case 0:
	default:
		log.Warn().
			Int("found", version).
			Int("expected", SchemaVersion).
			Msg("Metrics schema is outdated, recreating")
		if _, err := backupDatabase(db, backupDir, version, log); err != nil {
			return err
		}
	}

	if err := dropTables(db, log); err != nil {
		return err
	}

	return InitSchema(db, log)
}

// backupDatabase snapshots db into dir with VACUUM INTO, which must run
// outside a transaction.
func backupDatabase(db *sql.DB, dir string, version int, log logger.Logger) (string, error) {
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return "", stageError(ErrSchemaMigrationFailed, "create_backup_dir", dir, err)
	}

	name := fmt.Sprintf("metrics_v%d_%s.db", version, time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(dir, name)

	if _, err := db.Exec("VACUUM INTO '" + strings.ReplaceAll(path, "'", "''") + "'"); err != nil {
		return "", stageError(ErrSchemaMigrationFailed, "vacuum_into", path, err)
	}

	log.Info().Str("path", path).Int("version", version).Msg("Metrics database backed up")

	return path, nil
}

func dropTables(db *sql.DB, log logger.Logger) error {
	return inTx(db, log, ErrSchemaMigrationFailed, func(tx *sql.Tx) error {
		for _, table := range managedTables {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return stageError(ErrSchemaMigrationFailed, "drop_table", table, err)
			}
		}
		return nil
	})
}
