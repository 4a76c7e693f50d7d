package notify

import (
	"sync"
	"time"

	"codeberg.org/mutker/screenwell/internal/logger"
)

// DefaultCooldown is the minimum spacing between two identical alerts.
const DefaultCooldown = 5 * time.Second

type ledgerKey struct {
	title   string
	message string
}

// Gateway deduplicates alerts by exact (title, message) pair. One instance
// is created per process and shared by every monitor loop.
type Gateway struct {
	dispatcher Dispatcher
	cooldown   time.Duration
	now        func() time.Time
	logger     logger.Logger

	mu     sync.Mutex
	ledger map[ledgerKey]time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCooldown overrides DefaultCooldown.
func WithCooldown(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.cooldown = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// WithLogger replaces the component logger.
func WithLogger(log logger.Logger) Option {
	return func(g *Gateway) {
		g.logger = log
	}
}

func NewGateway(dispatcher Dispatcher, opts ...Option) *Gateway {
	g := &Gateway{
		dispatcher: dispatcher,
		cooldown:   DefaultCooldown,
		now:        time.Now,
		logger:     logger.Component("notify"),
		ledger:     make(map[ledgerKey]time.Time),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Send dispatches the alert unless the same pair went out less than one
// cooldown ago. It reports whether the dispatcher was invoked. A failed
// dispatch is taken back out of the ledger so the next send retries it.
func (g *Gateway) Send(title, message string) bool {
	key := ledgerKey{title: title, message: message}

	g.mu.Lock()
	now := g.now()
	last, seen := g.ledger[key]
	if seen && now.Sub(last) < g.cooldown {
		g.mu.Unlock()
		g.logger.Debug().
			Str("title", title).
			Dur("since_last", now.Sub(last)).
			Msg("Notification suppressed by cooldown")
		return false
	}
	// Reserved before dispatching so concurrent senders of the pair see it.
	g.ledger[key] = now
	g.mu.Unlock()

	if err := g.dispatcher.Notify(title, message); err != nil {
		g.logger.Warn().Err(err).Str("title", title).Msg("Failed to dispatch notification")
		g.release(key, now, last, seen)
		return true
	}

	g.logger.Info().Str("title", title).Str("message", message).Msg("Notification sent")

	return true
}

// release restores the ledger entry that a failed dispatch reserved, unless
// a later send has replaced it meanwhile.
func (g *Gateway) release(key ledgerKey, reserved, last time.Time, seen bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, ok := g.ledger[key]; !ok || !current.Equal(reserved) {
		return
	}
	if seen {
		g.ledger[key] = last
	} else {
		delete(g.ledger, key)
	}
}

// Cooldown returns the configured cooldown window.
func (g *Gateway) Cooldown() time.Duration {
	return g.cooldown
}
