package session

import (
	"sync"
	"time"
)

// LockSet hands out exclusive leases on channel-scoped resources, so only
// one race (or similar broadcast game) runs per channel at a time.
type LockSet struct {
	mu   sync.Mutex
	held map[string]*Guard
}

// Guard is a held lease. Release is idempotent and must eventually run
// exactly once, which callers get for free with defer.
type Guard struct {
	set      *LockSet
	key      string
	acquired time.Time
	once     sync.Once
}

func NewLockSet() *LockSet {
	return &LockSet{held: make(map[string]*Guard)}
}

// TryAcquire takes the lease for a key. Returns nil, false when someone
// else already holds it.
func (ls *LockSet) TryAcquire(key string) (*Guard, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if _, taken := ls.held[key]; taken {
		return nil, false
	}
	g := &Guard{set: ls, key: key, acquired: time.Now()}
	ls.held[key] = g
	return g, true
}

// Release returns the lease. Extra calls are no-ops. A guard whose lease
// was reclaimed by ReleaseStale no longer owns the key and must not free
// a newer holder's lease.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.set.mu.Lock()
		if g.set.held[g.key] == g {
			delete(g.set.held, g.key)
		}
		g.set.mu.Unlock()
	})
}

// ReleaseStale drops leases older than maxAge and returns the keys it
// cleared. Leases are normally released by their guards; this is the
// scheduler's backstop against a leaked one.
func (ls *LockSet) ReleaseStale(maxAge time.Duration) []string {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	var cleared []string
	cutoff := time.Now().Add(-maxAge)
	for key, g := range ls.held {
		if g.acquired.Before(cutoff) {
			delete(ls.held, key)
			cleared = append(cleared, key)
		}
	}
	return cleared
}
