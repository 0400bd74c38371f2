package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/patrickmn/go-cache"
)

// Cache holds stored case records keyed by case number.
type Cache interface {
	Get(caseNumber string) (*database.CaseRecord, bool)
	Set(caseNumber string, value *database.CaseRecord)
	Delete(caseNumber string)
	Clear()
	Stats() CacheStats
}

type CacheStats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type LRUCache struct {
	cache   *cache.Cache
	mu      sync.RWMutex
	stats   CacheStats
	maxSize int
}

func NewCache(maxSize int, ttl time.Duration) Cache {
	return &LRUCache{
		cache:   cache.New(ttl, ttl*2),
		maxSize: maxSize,
	}
}

// Get returns a copy of the cached record so callers cannot mutate the entry.
func (c *LRUCache) Get(caseNumber string) (*database.CaseRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(Key(caseNumber)); found {
		if record, ok := data.(*database.CaseRecord); ok {
			c.stats.Hits++
			return cloneRecord(record), true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *LRUCache) Set(caseNumber string, value *database.CaseRecord) {
	if value == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(caseNumber)
	if _, exists := c.cache.Get(key); !exists && c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}

	c.cache.Set(key, cloneRecord(value), cache.DefaultExpiration)
}

func (c *LRUCache) Delete(caseNumber string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(Key(caseNumber))
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = CacheStats{}
}

func (c *LRUCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.cache.ItemCount()
	return stats
}

// removeOldest evicts the entry closest to expiry, which is the one set earliest.
func (c *LRUCache) removeOldest() {
	var oldestKey string
	var oldest int64

	for key, item := range c.cache.Items() {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey = key
			oldest = item.Expiration
		}
	}

	if oldestKey != "" {
		c.cache.Delete(oldestKey)
	}
}

// Key normalizes a case number into a cache key.
func Key(caseNumber string) string {
	return fmt.Sprintf("case:%s", strings.TrimSpace(caseNumber))
}

func cloneRecord(record *database.CaseRecord) *database.CaseRecord {
	clone := *record
	if record.Orders != nil {
		clone.Orders = make([]database.OrderRecord, len(record.Orders))
		copy(clone.Orders, record.Orders)
	}
	return &clone
}
