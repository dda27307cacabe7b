package calendar

import "sync"

// eventCache holds the latest filtered snapshot keyed by derived event id.
// Replace-all semantics: each completed acquisition clears it and inserts
// the new set. It is not a diff/merge cache and has no TTL; it exists to
// make status/count queries cheap between refreshes.
type eventCache struct {
	mu     sync.RWMutex
	events map[string]Event
}

func newEventCache() *eventCache {
	return &eventCache{events: make(map[string]Event)}
}

// ReplaceAll discards the previous snapshot and stores the given set.
func (c *eventCache) ReplaceAll(events []Event) {
	next := make(map[string]Event, len(events))
	for _, ev := range events {
		next[ev.ID] = ev
	}

	c.mu.Lock()
	c.events = next
	c.mu.Unlock()
}

// Count returns the number of cached events.
func (c *eventCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// Get returns the cached event with the given derived id.
func (c *eventCache) Get(id string) (Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ev, ok := c.events[id]
	return ev, ok
}
