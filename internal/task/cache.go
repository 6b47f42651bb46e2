package task

import (
	"sync"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
)

// statusCache is the in-memory tier of task status. It holds at most
// capacity records; on overflow the oldest settled record is evicted,
// falling back to the oldest record outright when every entry is still
// live.
type statusCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uuid.UUID]*domain.GenerationTask
	order    []uuid.UUID
}

func newStatusCache(capacity int) *statusCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &statusCache{
		capacity: capacity,
		entries:  make(map[uuid.UUID]*domain.GenerationTask, capacity),
	}
}

// Put stores a copy of the record, evicting if the cache is full.
func (c *statusCache) Put(task *domain.GenerationTask) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[task.ID]; !exists {
		if len(c.entries) >= c.capacity {
			c.evictLocked()
		}
		c.order = append(c.order, task.ID)
	}
	c.entries[task.ID] = task.Clone()
}

// Get returns a copy of the record, or nil when absent.
func (c *statusCache) Get(id uuid.UUID) *domain.GenerationTask {
	c.mu.Lock()
	defer c.mu.Unlock()

	task, ok := c.entries[id]
	if !ok {
		return nil
	}
	return task.Clone()
}

// Len returns the number of cached records.
func (c *statusCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked removes the oldest settled record, or the oldest record
// when none has settled yet. Callers hold the mutex.
func (c *statusCache) evictLocked() {
	victim := -1
	for i, id := range c.order {
		if task, ok := c.entries[id]; ok && task.Settled() {
			victim = i
			break
		}
	}
	if victim == -1 && len(c.order) > 0 {
		victim = 0
	}
	if victim == -1 {
		return
	}

	delete(c.entries, c.order[victim])
	c.order = append(c.order[:victim], c.order[victim+1:]...)
}
