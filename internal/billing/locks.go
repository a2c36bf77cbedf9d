package billing

import "sync"

// lockTable hands out one mutex per entity key. Invoice and balance mutations
// are read-modify-write sequences, so every writer must hold the entity lock
// for the whole sequence to avoid lost updates.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for key and returns the release function.
func (t *lockTable) acquire(key string) func() {
	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
