package agent

import "sync"

// turnLocks serializes turns per lead external id. get-or-create followed by
// history read-then-append is not atomic across calls, so two concurrent
// turns for one id could interleave message order; holding the per-id lock
// for the whole turn prevents that. Entries are reference counted and removed
// when the last waiter releases, so the table does not grow with the user
// population.
type turnLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{entries: make(map[string]*lockEntry)}
}

// acquire blocks until the per-key lock is held and returns its release
// function. Callers must defer the release so every exit path unlocks.
func (t *turnLocks) acquire(key string) func() {
	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &lockEntry{}
		t.entries[key] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		t.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(t.entries, key)
		}
		t.mu.Unlock()
	}
}
