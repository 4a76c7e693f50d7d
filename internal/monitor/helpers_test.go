package monitor

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/screenwell/internal/perception"
	"codeberg.org/mutker/screenwell/internal/settings"
	"codeberg.org/mutker/screenwell/internal/usage"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Alert
}

func (r *recordingSender) Send(title, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Alert{Title: title, Message: message})
	return true
}

func (r *recordingSender) alerts() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Alert(nil), r.sent...)
}

func (r *recordingSender) has(a Alert) bool {
	for _, s := range r.alerts() {
		if s == a {
			return true
		}
	}
	return false
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []Alert
}

func (r *recordingDispatcher) Notify(title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Alert{Title: title, Message: message})
	return nil
}

func (r *recordingDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeSource replays one detection forever.
type fakeSource struct {
	det    perception.Detection
	err    error
	mu     sync.Mutex
	closed bool
}

func (f *fakeSource) Detect(context.Context) (perception.Detection, error) {
	return f.det, f.err
}

func (f *fakeSource) DetectImage(context.Context, string) (perception.Detection, error) {
	return f.det, f.err
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type memStore struct {
	mu    sync.Mutex
	rec   usage.Record
	found bool
	saves int
}

func (m *memStore) Load() (usage.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, m.found, nil
}

func (m *memStore) Save(r usage.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = r
	m.found = true
	m.saves++
	return nil
}

func (m *memStore) saved() (usage.Record, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, m.saves
}

// face builds a detection whose nose and eye triangle has the given area.
func face(area float64) perception.Detection {
	return perception.Detection{
		Kind:      perception.OneDetection,
		Keypoints: []perception.Point{{X: 0, Y: 0}, {X: area, Y: 0}, {X: 0, Y: 2}},
	}
}

// eyes builds a detection with one box per ratio.
func eyes(ratios ...float64) perception.Detection {
	d := perception.Detection{Kind: perception.OneDetection}
	for i, r := range ratios {
		x := float64(i) * 100
		d.Boxes = append(d.Boxes, perception.Box{X1: x, Y1: 0, X2: x + r*10, Y2: 10})
	}
	return d
}

func openSettings(t *testing.T) *settings.Store {
	t.Helper()

	s, err := settings.Open(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	return s
}

func base() time.Time {
	return time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)
}
