package cache

import "testing"

func TestGetSet(t *testing.T) {
	c := NewLRU[string, int](4)

	if _, ok := c.Get("a"); ok {
		t.Error("empty cache returned a value")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("updated value = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int, int](2)
	c.Set(1, 1)
	c.Set(2, 2)

	// Touch 1 so 2 becomes the eviction candidate.
	c.Get(1)
	c.Set(3, 3)

	if _, ok := c.Get(2); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("new entry missing")
	}
}

func TestGetOrCreate(t *testing.T) {
	c := NewLRU[string, int](4)
	calls := 0
	create := func() int {
		calls++
		return 42
	}

	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("GetOrCreate = %d", v)
	}
	if v := c.GetOrCreate("k", create); v != 42 {
		t.Errorf("GetOrCreate = %d", v)
	}
	if calls != 1 {
		t.Errorf("create ran %d times, want 1", calls)
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("Delete(a) = false")
	}
	if c.Delete("a") {
		t.Error("double Delete(a) = true")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestStats(t *testing.T) {
	c := NewLRU[string, int](1)
	c.Set("a", 1)
	c.Get("a")
	c.Get("missing")
	c.Set("b", 2) // evicts a

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Evictions != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.HitRate != 0.5 {
		t.Errorf("hit rate = %v, want 0.5", s.HitRate)
	}
}

func TestZeroCapacityDefaults(t *testing.T) {
	c := NewLRU[string, int](0)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.Capacity(), DefaultCapacity)
	}
}
