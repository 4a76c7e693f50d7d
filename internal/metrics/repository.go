package metrics

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

const dsnOptions = "?_journal=WAL&_auto_vacuum=2"

type repository struct {
	db     *sql.DB
	logger logger.Logger
	cfg    Config

	mu      sync.Mutex
	pending []*Snapshot

	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewRepository opens (or creates) the SQLite database at cfg.DBPath.
// Snapshots are buffered and written once cfg.BatchSize are pending, and
// every cfg.BatchTimeout seconds when both are positive.
func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	if cfg.DBPath == "" {
		return nil, errors.New().New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, stageError(ErrStorageInit, "create_directory", cfg.DBPath, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+dsnOptions)
	if err != nil {
		return nil, stageError(ErrStorageInit, "open_database", cfg.DBPath, err)
	}

	if err := ValidateAndUpdateSchema(db, cfg.BackupDir(), log); err != nil {
		db.Close()
		return nil, stageError(ErrStorageInit, "schema", cfg.DBPath, err)
	}

	r := &repository{
		db:      db,
		logger:  log,
		cfg:     cfg,
		pending: make([]*Snapshot, 0, max(cfg.BatchSize, 1)),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	if cfg.BatchSize > 0 && cfg.BatchTimeout > 0 {
		go r.flushEvery(time.Duration(cfg.BatchTimeout) * time.Second)
	} else {
		close(r.stopped)
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Int("batch_size", cfg.BatchSize).
		Int("batch_timeout", cfg.BatchTimeout).
		Msg("Metrics repository opened")

	return r, nil
}

func (r *repository) Record(snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, snapshot)
	if len(r.pending) < r.cfg.BatchSize {
		return nil
	}

	return r.flushLocked()
}

// Summarize counts ticks and dispatched alerts per monitor since the given
// instant. Pending snapshots are written first.
func (r *repository) Summarize(since time.Time) ([]Summary, error) {
	r.mu.Lock()
	if err := r.flushLocked(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.mu.Unlock()

	rows, err := r.db.Query(summarizeSQL, since.Unix())
	if err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Monitor, &s.Ticks, &s.Alerts); err != nil {
			return nil, errors.New().Wrap(ErrQueryFailed, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err)
	}

	return out, nil
}

// Close stops the periodic flush, writes what is pending and closes the
// database. Further calls return the first result.
func (r *repository) Close() error {
	r.closeOnce.Do(func() {
		close(r.stop)
		<-r.stopped
		r.closeErr = r.shutdown()
	})

	return r.closeErr
}

func (r *repository) shutdown() error {
	r.mu.Lock()
	if err := r.flushLocked(); err != nil {
		r.logger.Warn().Err(err).Int("pending", len(r.pending)).Msg("Dropping unwritten snapshots")
	}
	r.mu.Unlock()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.db.Close()
		return stageError(ErrStorageClose, "checkpoint_wal", r.cfg.DBPath, err)
	}

	if err := r.db.Close(); err != nil {
		return stageError(ErrStorageClose, "close_database", r.cfg.DBPath, err)
	}

	r.logger.Debug().Msg("Metrics repository closed")

	return nil
}

func (r *repository) flushEvery(period time.Duration) {
	defer close(r.stopped)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			if err := r.flushLocked(); err != nil {
				r.logger.Warn().Err(err).Msg("Periodic flush failed")
			}
			r.mu.Unlock()
		}
	}
}

// flushLocked writes every pending snapshot in one transaction. The
// caller holds r.mu. On failure the snapshots stay pending.
func (r *repository) flushLocked() error {
	if len(r.pending) == 0 {
		return nil
	}

	err := inTx(r.db, r.logger, ErrTransactionFailed, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(insertTickSQL)
		if err != nil {
			return errors.New().Wrap(ErrTransactionFailed, err)
		}
		defer stmt.Close()

		for _, s := range r.pending {
			if _, err := stmt.Exec(
				s.Timestamp.Unix(),
				s.Session,
				s.Monitor,
				s.Value,
				s.Average,
				s.Baseline,
				s.State,
				boolToInt(s.Dispatched),
			); err != nil {
				return stageError(ErrTransactionFailed, "insert", s.Monitor, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug().Int("snapshots", len(r.pending)).Msg("Flushed snapshots")
	r.pending = r.pending[:0]

	return nil
}
