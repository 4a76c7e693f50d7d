package threshold_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/screenwell/internal/threshold"
	"github.com/stretchr/testify/assert"
)

func TestWindowAverage(t *testing.T) {
	w := threshold.NewWindow(5)

	w, avg := w.Push(900)
	assert.InDelta(t, 900, avg, 1e-9)

	w, avg = w.Push(1300)
	assert.InDelta(t, 1100, avg, 1e-9)
	assert.Equal(t, 2, w.Len())
}

func TestWindowEvictsOldest(t *testing.T) {
	w := threshold.NewWindow(5)
	for _, s := range []float64{1, 2, 3, 4, 5, 6, 7} {
		w, _ = w.Push(s)
	}

	assert.Equal(t, 5, w.Len())
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, w.Samples())
	assert.InDelta(t, 5, w.Average(), 1e-9)
}

func TestWindowValueSemantics(t *testing.T) {
	base, _ := threshold.NewWindow(3).Push(10)

	a, avgA := base.Push(20)
	b, avgB := base.Push(40)

	assert.Equal(t, 1, base.Len())
	assert.InDelta(t, 15, avgA, 1e-9)
	assert.InDelta(t, 25, avgB, 1e-9)
	assert.Equal(t, []float64{10, 20}, a.Samples())
	assert.Equal(t, []float64{10, 40}, b.Samples())
}

func TestWindowZeroValue(t *testing.T) {
	var w threshold.Window
	assert.InDelta(t, 0, w.Average(), 1e-9)

	for i := 0; i < 8; i++ {
		w, _ = w.Push(float64(i))
	}
	assert.Equal(t, threshold.DefaultWindowSize, w.Len())
}

func TestDebouncerNeedsFullRing(t *testing.T) {
	d := threshold.NewDebouncer(5, 5*time.Second)
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	var fire bool
	for i := 0; i < 4; i++ {
		d, fire = d.Mark(start.Add(time.Duration(i) * 10 * time.Second))
		assert.False(t, fire, "tick %d", i)
	}
}

func TestDebouncerSpan(t *testing.T) {
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		step time.Duration
		want bool
	}{
		{"spans more than five seconds", 2 * time.Second, true},
		{"spans exactly five seconds", 1250 * time.Millisecond, false},
		{"spans less than five seconds", time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := threshold.NewDebouncer(5, 5*time.Second)
			var fire bool
			for i := 0; i < 5; i++ {
				d, fire = d.Mark(start.Add(time.Duration(i) * tt.step))
			}
			assert.Equal(t, tt.want, fire)
		})
	}
}

func TestDebouncerKeepsRearming(t *testing.T) {
	d := threshold.NewDebouncer(5, 5*time.Second)
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	fired := 0
	for i := 0; i < 10; i++ {
		var fire bool
		d, fire = d.Mark(start.Add(time.Duration(i) * 5 * time.Second))
		if fire {
			fired++
		}
	}

	assert.Equal(t, 6, fired)
	assert.Equal(t, 5, d.Len())
}
