// Package monitor runs the screen-health monitors. Each monitor is an
// independent periodic loop whose per-tick transition is a Step function
// over an explicit state value; Run threads that state between ticks and
// routes the resulting alerts through the shared notification gateway.
package monitor

import (
	"context"
	"time"

	"codeberg.org/mutker/screenwell/internal/metrics"
	"codeberg.org/mutker/screenwell/internal/notify"
	"codeberg.org/mutker/screenwell/internal/threshold"
)

// Monitor names, also used for PID files and metrics.
const (
	NameDistance  = "distance"
	NameTension   = "tension"
	NameDaily     = "daily"
	NameNight     = "night"
	NameBreaks    = "breaks"
	NameBlueLight = "bluelight"
)

// Names lists every monitor in start order.
var Names = []string{NameDistance, NameTension, NameDaily, NameNight, NameBreaks, NameBlueLight}

type Monitor interface {
	Name() string
	Run(ctx context.Context) error
}

// Settings is the part of the settings store the monitors read and write.
type Settings interface {
	String(key string) string
	Int(key string) int
	Float64(key string) float64
	Float64Slice(key string) ([]float64, error)
	AssetPath(name string) string
	Set(key string, value any) error
}

// Deps are the collaborators shared by every monitor.
type Deps struct {
	Sender   notify.Sender
	Settings Settings
	Metrics  metrics.Collector
	// Cooldown spaces repeated classifier alerts; zero means the default.
	Cooldown time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Alert is one notification a tick asks for.
type Alert struct {
	Title   string
	Message string
}

// Sample is one classified measurement of a monitored region.
type Sample struct {
	Region     string
	Value      float64
	Average    float64
	Baseline   float64
	State      threshold.State
	Dispatched bool
}

// Tick is the outcome of one Step.
type Tick struct {
	Alerts  []Alert
	Samples []Sample
}
