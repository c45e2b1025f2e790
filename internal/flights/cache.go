package flights

import (
	"container/list"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/airdesk-ai/airdesk/internal/conversation"
)

// DefaultCacheCapacity bounds the route cache when no capacity is
// configured.
const DefaultCacheCapacity = 128

// CachingSource wraps a Source with a least-recently-used cache keyed
// by route and date, so repeated searches inside one conversation
// return the exact same result set. That stability is what makes
// follow-up references ("the first one") resolve consistently.
type CachingSource struct {
	inner    Source
	capacity int

	mu      sync.Mutex
	order   *list.List
	entries map[string]*list.Element
}

type routeEntry struct {
	key     string
	flights []conversation.FlightRecord
}

// NewCachingSource wraps a flight source with an LRU cache.
func NewCachingSource(inner Source, capacity int) *CachingSource {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CachingSource{
		inner:    inner,
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Search returns the cached result set for a route and date, querying
// the wrapped source on a miss.
func (c *CachingSource) Search(ctx context.Context, origin, destination, date string) ([]conversation.FlightRecord, error) {
	key := routeKey(origin, destination, date)

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		flights := elem.Value.(*routeEntry).flights
		c.mu.Unlock()
		return flights, nil
	}
	c.mu.Unlock()

	flights, err := c.inner.Search(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*routeEntry).flights, nil
	}
	c.entries[key] = c.order.PushFront(&routeEntry{key: key, flights: flights})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*routeEntry).key)
	}
	return flights, nil
}

// FlightDetails is served directly by the wrapped source; individual
// lookups are cheap and not worth cache slots.
func (c *CachingSource) FlightDetails(ctx context.Context, flightNumber, date string) (conversation.FlightRecord, error) {
	return c.inner.FlightDetails(ctx, flightNumber, date)
}

// Len reports how many route/date entries are cached.
func (c *CachingSource) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func routeKey(origin, destination, date string) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToUpper(strings.TrimSpace(origin)),
		strings.ToUpper(strings.TrimSpace(destination)),
		strings.ToLower(strings.TrimSpace(date)))
}
