package cache

import (
	"reflect"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](0, nil)
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New(2, func(k string, _ int) { evicted = append(evicted, k) })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // b is now the oldest
	c.Set("c", 3)

	if !reflect.DeepEqual(evicted, []string{"b"}) {
		t.Errorf("evicted = %v, want [b]", evicted)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should be gone")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive")
	}
}

func TestCacheReplaceCallsHook(t *testing.T) {
	var got []int
	c := New(4, func(_ string, v int) { got = append(got, v) })
	c.Set("a", 1)
	c.Set("a", 2)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("evicted values = %v, want [1]", got)
	}
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	n := 0
	c := New(0, func(string, int) { n++ })
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if !c.Delete("a") || c.Delete("a") {
		t.Error("Delete should report presence once")
	}
	c.Clear()
	if n != 3 || c.Len() != 0 {
		t.Errorf("hook calls = %d, Len = %d; want 3, 0", n, c.Len())
	}
}

func TestCacheStats(t *testing.T) {
	c := New[int, int](8, nil)
	c.Set(1, 1)
	c.Get(1)
	c.Get(2)
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.HitRate != 0.5 || s.Capacity != 8 || s.Len != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCacheConcurrent(t *testing.T) {
	var mu sync.Mutex
	live := make(map[int]bool)
	c := New(16, func(k, _ int) {
		mu.Lock()
		delete(live, k)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				k := g*100 + i
				mu.Lock()
				live[k] = true
				mu.Unlock()
				c.Set(k, i)
				c.Get(k)
			}
		}(g)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if c.Len() != 16 || len(live) != 16 {
		t.Errorf("Len() = %d, live = %d; want 16, 16", c.Len(), len(live))
	}
}
