package auth

import (
	"sync"
	"time"
)

// RevocationList tracks tokens revoked before their natural expiry.
// Inserts are visible to all subsequent lookups across goroutines.
type RevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time // token -> natural expiry (zero when unknown)
}

// NewRevocationList returns an empty revocation list.
func NewRevocationList() *RevocationList {
	return &RevocationList{entries: make(map[string]time.Time)}
}

// Revoke records the literal token string. Idempotent. The expiry is kept
// only so PurgeExpired can evict entries once the token would have died anyway.
func (l *RevocationList) Revoke(token string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[token] = expiresAt
}

// Contains reports whether the token has been revoked.
func (l *RevocationList) Contains(token string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[token]
	return ok
}

// PurgeExpired drops entries whose natural expiry has passed and returns the
// number removed. Entries with unknown expiry are never evicted.
func (l *RevocationList) PurgeExpired(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for token, exp := range l.entries {
		if !exp.IsZero() && now.After(exp) {
			delete(l.entries, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of revoked entries currently held.
func (l *RevocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
