package metrics

import (
	"context"
	"time"
)

// Collector records per-tick monitor snapshots.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Session() string
	Close() error
}

// Repository stores snapshots.
type Repository interface {
	Record(snapshot *Snapshot) error
	Summarize(since time.Time) ([]Summary, error)
	Close() error
}

// Summary counts one monitor's ticks and the alerts among them.
type Summary struct {
	Monitor string
	Ticks   int
	Alerts  int
}

// Snapshot is one monitor tick: the raw value, its smoothed average, the
// baseline it was compared with, the resulting state and whether a
// notification went out.
type Snapshot struct {
	Timestamp  time.Time
	Session    string
	Monitor    string
	Value      float64
	Average    float64
	Baseline   float64
	State      string
	Dispatched bool
}
