package query

import "sync"

// Subscription holds a reference to one cache entry and receives its values.
type Subscription struct {
	cache   *Cache
	key     string
	updates chan Update
	once    sync.Once
}

// Subscribe registers interest in q. The current value, if any, is delivered
// at once; a missing, stale or failed entry is fetched in the background.
func (c *Cache) Subscribe(q Query) *Subscription {
	s := &Subscription{cache: c, key: q.Key, updates: make(chan Update, 1)}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(q)
	if e.gc != nil {
		e.gc.Stop()
		e.gc = nil
	}
	e.subscribers[s] = struct{}{}

	if e.fetched {
		s.deliver(Update{Data: e.data, Err: e.err})
	}
	if !e.fetched || e.stale || e.err != nil {
		c.refreshLocked(q.Key, e)
	}
	return s
}

func (s *Subscription) Key() string {
	return s.key
}

// Updates carries the latest value only; a slow reader skips intermediate ones.
// The channel is closed by Unsubscribe.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// deliver must be called with the cache lock held.
func (s *Subscription) deliver(u Update) {
	select {
	case <-s.updates:
	default:
	}
	s.updates <- u
}

// Unsubscribe drops the reference. When it was the last one, a running
// refresh is cancelled and the entry is scheduled for collection.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		c := s.cache
		c.mu.Lock()
		defer c.mu.Unlock()

		if e, ok := c.entries[s.key]; ok {
			delete(e.subscribers, s)
			if len(e.subscribers) == 0 {
				if e.cancel != nil {
					e.cancel()
				}
				c.scheduleGCLocked(s.key, e)
			}
		}
		close(s.updates)
	})
}
