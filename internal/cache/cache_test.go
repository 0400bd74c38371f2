package cache

import (
	"testing"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache(10, time.Minute)

	_, found := c.Get("CS 1/2024")
	assert.False(t, found)

	c.Set("CS 1/2024", &database.CaseRecord{
		CaseNumber: "CS 1/2024",
		CourtName:  "District Court Faridabad",
		Orders:     []database.OrderRecord{{Title: "Interim Order"}},
	})

	got, found := c.Get("CS 1/2024")
	require.True(t, found)
	assert.Equal(t, "District Court Faridabad", got.CourtName)
	require.Len(t, got.Orders, 1)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCacheReturnsCopies(t *testing.T) {
	c := NewCache(10, time.Minute)
	c.Set("X/1", &database.CaseRecord{
		CaseNumber: "X/1",
		CaseStatus: "Pending",
		Orders:     []database.OrderRecord{{Title: "first"}},
	})

	got, _ := c.Get("X/1")
	got.CaseStatus = "Disposed"
	got.Orders[0].Title = "changed"

	again, _ := c.Get("X/1")
	assert.Equal(t, "Pending", again.CaseStatus)
	assert.Equal(t, "first", again.Orders[0].Title)
}

func TestCacheEvictsWhenFull(t *testing.T) {
	c := NewCache(2, time.Minute)

	c.Set("a", &database.CaseRecord{CaseNumber: "a"})
	time.Sleep(5 * time.Millisecond)
	c.Set("b", &database.CaseRecord{CaseNumber: "b"})
	c.Set("c", &database.CaseRecord{CaseNumber: "c"})

	assert.Equal(t, 2, c.Stats().Size)
	_, found := c.Get("a")
	assert.False(t, found, "oldest entry should be evicted")
	_, found = c.Get("c")
	assert.True(t, found)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache(10, time.Minute)
	c.Set("a", &database.CaseRecord{CaseNumber: "a"})
	c.Set("b", &database.CaseRecord{CaseNumber: "b"})

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)

	c.Clear()
	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestKeyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, Key("CRL.A. 100/2025"), Key("  CRL.A. 100/2025 "))
}
