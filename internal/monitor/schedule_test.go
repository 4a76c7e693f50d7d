package monitor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/ladder"
	"codeberg.org/mutker/screenwell/internal/settings"
	"codeberg.org/mutker/screenwell/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyStep(t *testing.T) {
	m := NewDaily(Deps{}, nil, time.Minute)
	budget := ladder.TimeOfDay{Hour: 4}
	limit := budget.Seconds()

	tests := []struct {
		name   string
		used   int64
		region ladder.Region
		alerts []Alert
	}{
		{"two hours left", limit - 7200, ladder.BeforeLimit, []Alert{dailyRemaining(7200)}},
		{"within the rung minute", limit - 7230, ladder.BeforeLimit, []Alert{dailyRemaining(7230)}},
		{"between rungs", limit - 7260, ladder.BeforeLimit, nil},
		{"one minute left", limit - 90, ladder.BeforeLimit, []Alert{dailyRemaining(90)}},
		{"at limit", limit, ladder.AtLimit, []Alert{dailyReached}},
		{"still at limit", limit + 59, ladder.AtLimit, []Alert{dailyReached}},
		{"one minute over", limit + 60, ladder.OverLimit, []Alert{dailyOver(1)}},
		{"between over rungs", limit + 120, ladder.OverLimit, nil},
		{"fifteen over", limit + 15*60, ladder.OverLimit, []Alert{dailyOver(15)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, alerts := m.Step(usage.Record{SecondsUsed: tt.used}, budget)
			assert.Equal(t, tt.region, d.Region)
			assert.Equal(t, tt.alerts, alerts)
		})
	}

	assert.Equal(t, "You have 2 hour(s) of screen time left today", dailyRemaining(7230).Message)
	assert.Equal(t, "You're 15 minute(s) over your daily limit! Please shut down soon.", dailyOver(15).Message)
}

func TestDailyRunResetsYesterdaysUsage(t *testing.T) {
	today := base()
	store := &memStore{
		rec: usage.Record{
			Date:         today.AddDate(0, 0, -1),
			SecondsUsed:  3600,
			SessionStart: today.AddDate(0, 0, -1),
		},
		found: true,
	}

	// Every clock read advances one second.
	var ticks atomic.Int64
	clock := func() time.Time {
		return today.Add(time.Duration(ticks.Add(1)) * time.Second)
	}

	st := openSettings(t)
	sender := &recordingSender{}
	m := NewDaily(Deps{Sender: sender, Settings: st, Clock: clock}, store, 5*time.Millisecond, usage.WithPersistRetry(1, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, saves := store.saved()
		return saves >= 1
	}, 2*time.Second, 5*time.Millisecond)

	rec, _ := store.saved()
	assert.Less(t, rec.SecondsUsed, int64(60), "yesterday's 3600s must not carry over")
	assert.True(t, rec.SameDay(today))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daily monitor did not stop")
	}

	// The final flush keeps accumulating from today's count.
	final, _ := store.saved()
	assert.GreaterOrEqual(t, final.SecondsUsed, rec.SecondsUsed)
	assert.Less(t, final.SecondsUsed, int64(3600))
}

func TestDailyRunRejectsBadLimit(t *testing.T) {
	st := openSettings(t)
	require.NoError(t, st.Set(settings.KeyDailyLimitTime, "25:99"))

	m := NewDaily(Deps{Settings: st}, &memStore{}, time.Millisecond)
	err := m.Run(context.Background())
	assert.True(t, errors.HasCode(err, ErrInvalidLimit))
}

func TestNightStep(t *testing.T) {
	m := NewNight(Deps{}, time.Minute)
	bedtime := ladder.TimeOfDay{Hour: 22}
	at := func(day, hour, minute, second int) time.Time {
		return time.Date(2026, 10, day, hour, minute, second, 0, time.Local)
	}

	tests := []struct {
		name   string
		now    time.Time
		region ladder.Region
		alerts []Alert
	}{
		{"two hours before", at(15, 20, 0, 0), ladder.BeforeLimit, []Alert{bedtimeReminder(120)}},
		{"between rungs", at(15, 20, 0, 30), ladder.BeforeLimit, nil},
		{"five minutes before", at(15, 21, 55, 0), ladder.BeforeLimit, []Alert{bedtimeReminder(5)}},
		{"at bedtime", at(15, 22, 0, 0), ladder.AtLimit, []Alert{bedtimeReached(bedtime)}},
		{"end of bedtime minute", at(15, 22, 0, 59), ladder.AtLimit, []Alert{bedtimeReached(bedtime)}},
		{"one minute past", at(15, 22, 1, 0), ladder.OverLimit, []Alert{bedtimePast(1)}},
		{"an hour past", at(15, 23, 0, 0), ladder.OverLimit, []Alert{bedtimePast(60)}},
		{"two hours past after midnight", at(16, 0, 0, 0), ladder.OverLimit, []Alert{bedtimePast(120)}},
		{"rolled over", at(16, 0, 1, 0), ladder.BeforeLimit, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, alerts := m.Step(bedtime, tt.now)
			assert.Equal(t, tt.region, d.Region)
			assert.Equal(t, tt.alerts, alerts)
		})
	}

	assert.Equal(t, "It's 22:00! Time to get off the computer and rest.", bedtimeReached(bedtime).Message)
}

func TestNightRolloverHappensBeforeFormatting(t *testing.T) {
	m := NewNight(Deps{}, time.Minute)
	now := time.Date(2026, 10, 16, 0, 30, 0, 0, time.Local)

	d, alerts := m.Step(ladder.TimeOfDay{Hour: 22}, now)
	assert.Empty(t, alerts)
	assert.Equal(t, int64(21*3600+30*60), d.Remaining)
	assert.Equal(t, "21 hour(s) 30 minute(s)", ladder.Format(d.Remaining, ladder.Night))
}

func TestBreaksRun(t *testing.T) {
	sender := &recordingSender{}
	m := NewBreaks(Deps{Sender: sender}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return sender.has(breakAlert) }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestNewBreaksDefaultsInterval(t *testing.T) {
	assert.Equal(t, DefaultBreakInterval, NewBreaks(Deps{}, 0).interval)
}

func TestEveryRejectsNonPositiveInterval(t *testing.T) {
	err := every(context.Background(), 0, true, func() { t.Fatal("must not run") })
	assert.True(t, errors.HasCode(err, ErrInvalidInterval))
}
