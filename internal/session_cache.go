package internal

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const sessionListKey = "sessions"

// SessionCache is a process-wide TTL cache of the backend session list.
// Every consumer (sidebar refresh, header name lookup) reads and fills the
// same entry.
type SessionCache struct {
	cache *cache.Cache
}

// NewSessionCache creates a cache whose entries expire after ttl
func NewSessionCache(ttl time.Duration) *SessionCache {
	return &SessionCache{cache: cache.New(ttl, 2*ttl)}
}

// Get returns the cached list if it has not expired
func (c *SessionCache) Get() ([]Session, bool) {
	if x, found := c.cache.Get(sessionListKey); found {
		return cloneSessions(x.([]Session)), true
	}
	return nil, false
}

// Set stores a fresh list
func (c *SessionCache) Set(sessions []Session) {
	c.cache.Set(sessionListKey, cloneSessions(sessions), cache.DefaultExpiration)
}

// Invalidate drops the cached list so the next reader fetches
func (c *SessionCache) Invalidate() {
	c.cache.Delete(sessionListKey)
}

func cloneSessions(sessions []Session) []Session {
	if sessions == nil {
		return nil
	}
	out := make([]Session, len(sessions))
	copy(out, sessions)
	return out
}
