// Package store defines the persistence interfaces. The only durable state
// in the system is the timestamp of the last successfully dispatched action;
// everything else (polls, timers) lives and dies with the process.
package store

import "time"

// CooldownStore persists the last-action timestamp across restarts.
//
// Load returns (zero, false, nil) when no prior action is recorded; a
// corrupt or unreadable record degrades the same way rather than erroring,
// because persistence failures must never prevent startup.
type CooldownStore interface {
	Load() (last time.Time, ok bool, err error)
	Save(last time.Time) error
}
