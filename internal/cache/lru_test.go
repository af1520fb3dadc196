package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[string](2, 0)
	c.Set("k", "old")
	c.Set("k", "new")
	if v, _ := c.Get("k"); v != "new" {
		t.Errorf("Get(k) = %q, want new", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[int](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(30 * time.Second)
	c.Set("c", 3)

	now = now.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if got := c.CleanExpired(); got != 1 {
		t.Errorf("CleanExpired() = %d, want 1", got)
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should still be cached")
	}
}

func TestLRUPurgeAndDelete(t *testing.T) {
	c := NewLRU[int](0, 0)
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("missing")
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after delete", c.Len())
	}

	c.Set("b", 2)
	c.Purge()
	if _, ok := c.Get("b"); ok {
		t.Error("b should be gone after Purge")
	}
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v after Purge", v, ok)
	}
}
