package cooldown

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory CooldownStore with injectable failures.
type memStore struct {
	mu      sync.Mutex
	last    time.Time
	ok      bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.ok, m.loadErr
}

func (m *memStore) Save(last time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.last, m.ok = last, true
	return nil
}

func TestGating(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	tr := New(&memStore{}, 60*time.Second)

	if tr.IsCoolingDown(base) {
		t.Fatal("fresh tracker should not be cooling down")
	}

	tr.RecordAction(base)
	if !tr.IsCoolingDown(base.Add(5 * time.Second)) {
		t.Error("should be cooling down 5s after an action")
	}
	if !tr.IsCoolingDown(base.Add(59 * time.Second)) {
		t.Error("should be cooling down just inside the window")
	}
	if tr.IsCoolingDown(base.Add(60 * time.Second)) {
		t.Error("window boundary should permit a new action")
	}
	if got := tr.Remaining(base.Add(45 * time.Second)); got != 15*time.Second {
		t.Errorf("Remaining = %v, want 15s", got)
	}
	if got := tr.Remaining(base.Add(2 * time.Minute)); got != 0 {
		t.Errorf("Remaining after expiry = %v, want 0", got)
	}
}

func TestLoadsPersistedState(t *testing.T) {
	last := time.Now().Add(-10 * time.Second)
	tr := New(&memStore{last: last, ok: true}, time.Minute)
	if !tr.IsCoolingDown(time.Now()) {
		t.Error("tracker should honour persisted last-action time")
	}
}

func TestLoadFailureDegrades(t *testing.T) {
	tr := New(&memStore{loadErr: errors.New("disk on fire")}, time.Minute)
	if tr.IsCoolingDown(time.Now()) {
		t.Error("load failure must degrade to no cooldown, not a stuck gate")
	}
}

func TestSaveFailureKeepsMemoryValue(t *testing.T) {
	st := &memStore{saveErr: errors.New("read-only fs")}
	tr := New(st, time.Minute)
	now := time.Now()
	tr.RecordAction(now)
	if st.saves != 1 {
		t.Fatalf("expected one save attempt, got %d", st.saves)
	}
	if !tr.IsCoolingDown(now.Add(time.Second)) {
		t.Error("in-memory cooldown must apply even when persistence fails")
	}
}

func TestMonotonic(t *testing.T) {
	tr := New(&memStore{}, time.Minute)
	now := time.Now()
	tr.RecordAction(now)
	tr.RecordAction(now.Add(-time.Hour)) // stale write must not rewind
	if !tr.LastAction().Equal(now) {
		t.Errorf("LastAction = %v, want %v (non-decreasing)", tr.LastAction(), now)
	}
}
