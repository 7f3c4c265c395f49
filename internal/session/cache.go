package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
)

// Entry is the process-local view of a user's active session.
type Entry struct {
	SessionID    string
	User         model.User
	LastActivity time.Time
}

// Cache is a bounded, TTL-aligned read-through cache keyed by username.
// It is a latency optimisation only: the database stays authoritative and
// separate processes do not share entries.
type Cache struct {
	lru *expirable.LRU[string, Entry]
}

func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, Entry](size, nil, ttl),
	}
}

func (c *Cache) Get(username string) (Entry, bool) {
	return c.lru.Get(username)
}

// Put stores e and restarts its expiry.
func (c *Cache) Put(username string, e Entry) {
	c.lru.Add(username, e)
}

func (c *Cache) Evict(username string) {
	c.lru.Remove(username)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
