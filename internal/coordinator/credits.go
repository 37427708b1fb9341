package coordinator

import "sync"

// Credits caches the member's available credits per service. The server is
// the source of truth; entries are refreshed or dropped after mutations.
type Credits struct {
	mu sync.RWMutex
	m  map[int64]int
}

func NewCredits() *Credits {
	return &Credits{m: make(map[int64]int)}
}

func (c *Credits) Get(serviceID int64) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.m[serviceID]
	return n, ok
}

func (c *Credits) Set(serviceID int64, n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	c.m[serviceID] = n
	c.mu.Unlock()
}

func (c *Credits) Invalidate(serviceID int64) {
	c.mu.Lock()
	delete(c.m, serviceID)
	c.mu.Unlock()
}

func (c *Credits) Snapshot() map[int64]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int64]int, len(c.m))
	for k, v := range c.m {
		out[k] = v
	}
	return out
}
