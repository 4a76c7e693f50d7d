// Package threshold holds the signal primitives shared by the camera
// monitors: a moving-average window, a detection-loss debouncer and the
// baseline classifier.
package threshold

import "time"

const (
	// DefaultWindowSize is the capacity used for both sample windows and
	// anomaly rings.
	DefaultWindowSize = 5
	// DefaultDebounceSpan is the span a full anomaly ring must exceed.
	DefaultDebounceSpan = 5 * time.Second
)

// Window is a fixed-capacity FIFO of samples. It has value semantics:
// Push returns an updated copy and leaves the receiver untouched.
type Window struct {
	size    int
	samples []float64
}

func NewWindow(size int) Window {
	if size <= 0 {
		size = DefaultWindowSize
	}

	return Window{size: size}
}

// Push appends sample, evicting the oldest one beyond capacity, and
// returns the new window with the mean of its contents.
func (w Window) Push(sample float64) (Window, float64) {
	size := w.size
	if size <= 0 {
		size = DefaultWindowSize
	}

	next := make([]float64, 0, size+1)
	next = append(next, w.samples...)
	next = append(next, sample)
	if len(next) > size {
		next = next[len(next)-size:]
	}

	out := Window{size: size, samples: next}

	return out, out.Average()
}

// Average returns the mean of the current contents, or 0 when empty.
func (w Window) Average() float64 {
	if len(w.samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range w.samples {
		sum += s
	}

	return sum / float64(len(w.samples))
}

func (w Window) Len() int {
	return len(w.samples)
}

// Samples returns a copy of the current contents, oldest first.
func (w Window) Samples() []float64 {
	out := make([]float64, len(w.samples))
	copy(out, w.samples)

	return out
}
