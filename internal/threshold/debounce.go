package threshold

import "time"

// Debouncer is a fixed-capacity ring of anomaly timestamps. It reports an
// anomaly once the ring is full and spans more than the configured span.
// The ring is never cleared after firing, so a persisting anomaly
// qualifies again on every tick and the notification cooldown is what
// throttles the repeats.
type Debouncer struct {
	size  int
	span  time.Duration
	marks []time.Time
}

func NewDebouncer(size int, span time.Duration) Debouncer {
	if size <= 0 {
		size = DefaultWindowSize
	}
	if span <= 0 {
		span = DefaultDebounceSpan
	}

	return Debouncer{size: size, span: span}
}

// Mark records an anomalous tick at now and reports whether the anomaly
// has persisted long enough to alert.
func (d Debouncer) Mark(now time.Time) (Debouncer, bool) {
	size, span := d.size, d.span
	if size <= 0 {
		size = DefaultWindowSize
	}
	if span <= 0 {
		span = DefaultDebounceSpan
	}

	next := make([]time.Time, 0, size+1)
	next = append(next, d.marks...)
	next = append(next, now)
	if len(next) > size {
		next = next[len(next)-size:]
	}

	out := Debouncer{size: size, span: span, marks: next}
	if len(next) < size {
		return out, false
	}

	return out, next[len(next)-1].Sub(next[0]) > span
}

func (d Debouncer) Len() int {
	return len(d.marks)
}
