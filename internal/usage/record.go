// Package usage tracks how long the screen has been in use today.
package usage

import (
	"encoding/json"
	"time"

	"github.com/relvacode/iso8601"
)

// Record is the persisted daily usage counter.
type Record struct {
	Date         time.Time
	SecondsUsed  int64
	SessionStart time.Time
}

// NewRecord starts an empty day anchored at now.
func NewRecord(now time.Time) Record {
	return Record{
		Date:         now,
		SecondsUsed:  0,
		SessionStart: now,
	}
}

// SameDay reports whether the record belongs to the local calendar day of now.
func (r Record) SameDay(now time.Time) bool {
	y1, m1, d1 := r.Date.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

type recordJSON struct {
	Date         string `json:"date"`
	SecondsUsed  int64  `json:"seconds_used"`
	SessionStart string `json:"session_start"`
}

// MarshalJSON writes both timestamps as RFC 3339 with their zone.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Date:         r.Date.Format(time.RFC3339Nano),
		SecondsUsed:  r.SecondsUsed,
		SessionStart: r.SessionStart.Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON accepts zoned or zone-less timestamps. A missing session
// start falls back to the date and a negative counter reads as zero.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := parseISO(raw.Date)
	if err != nil {
		return err
	}

	start := date
	if raw.SessionStart != "" {
		if start, err = parseISO(raw.SessionStart); err != nil {
			return err
		}
	}

	r.Date = date
	r.SecondsUsed = max(raw.SecondsUsed, 0)
	r.SessionStart = start

	return nil
}

// parseISO reads an ISO 8601 timestamp. One without a zone is local time,
// which is how the record was written before zones were recorded.
func parseISO(s string) (time.Time, error) {
	return iso8601.ParseInLocation([]byte(s), time.Local)
}
