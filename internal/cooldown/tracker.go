// Package cooldown gates action dispatch behind a minimum interval between
// successful actions. The timestamp is the one piece of state shared between
// the timer-triggered dispatch path and the message-triggered router path.
package cooldown

import (
	"log/slog"
	"sync"
	"time"

	"github.com/nextlevelbuilder/thermovote/internal/store"
)

// Tracker holds the last successful action time, backed by a CooldownStore.
// Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	last   time.Time
	window time.Duration
	store  store.CooldownStore
}

// New creates a tracker with the given window, loading any persisted
// timestamp. A load failure degrades to "no cooldown known".
func New(s store.CooldownStore, window time.Duration) *Tracker {
	t := &Tracker{window: window, store: s}
	last, ok, err := s.Load()
	if err != nil {
		slog.Warn("could not load cooldown state, assuming no prior action", "error", err)
	} else if ok {
		t.last = last
		slog.Info("loaded cooldown state", "last_action_at", last)
	}
	return t
}

// Window returns the configured cooldown duration.
func (t *Tracker) Window() time.Duration { return t.window }

// IsCoolingDown reports whether an action at now would fall inside the
// cooldown window of the previous one.
func (t *Tracker) IsCoolingDown(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.last.IsZero() && now.Sub(t.last) < t.window
}

// Remaining returns how long until the cooldown expires (0 when idle).
func (t *Tracker) Remaining(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last.IsZero() {
		return 0
	}
	rem := t.window - now.Sub(t.last)
	if rem < 0 {
		return 0
	}
	return rem
}

// LastAction returns the recorded last-action time (zero when none).
func (t *Tracker) LastAction() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// RecordAction sets the last-action time and persists it. The in-memory
// value never goes backwards; a persist failure is logged and the in-memory
// cooldown still applies for the rest of the process lifetime.
func (t *Tracker) RecordAction(now time.Time) {
	t.mu.Lock()
	if now.After(t.last) {
		t.last = now
	}
	persist := t.last
	t.mu.Unlock()

	if err := t.store.Save(persist); err != nil {
		slog.Warn("could not persist cooldown state", "error", err)
	}
}
