// Package metrics keeps an optional local history of monitor ticks in
// SQLite, one row per tick.
package metrics

import (
	"context"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"github.com/google/uuid"
)

type service struct {
	repo    Repository
	session string
}

// No-op implementation
type noopCollector struct {
	session string
}

// NewService returns a collector for cfg. Every snapshot recorded through
// it is tagged with one session id per process run.
func NewService(cfg Config, log logger.Logger) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	session := uuid.NewString()

	if !cfg.Enabled {
		log.Debug().Msg("Metrics collection disabled, using no-op collector")
		return &noopCollector{session: session}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create metrics repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Str("session", session).
		Msg("Metrics service initialized successfully")

	return &service{repo: repo, session: session}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil || snapshot.Monitor == "" {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	if snapshot.Session == "" {
		snapshot.Session = s.session
	}
	if err := s.repo.Record(snapshot); err != nil {
		return errFactory.Wrap(ErrCollection, err)
	}

	return nil
}

func (s *service) Session() string {
	return s.session
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*noopCollector) Record(_ context.Context, _ *Snapshot) error {
	return nil
}

func (n *noopCollector) Session() string {
	return n.session
}

func (*noopCollector) Close() error {
	return nil
}
