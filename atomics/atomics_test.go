package atomics

import (
	"sync"
	"testing"
)

func TestInt32_Counter(t *testing.T) {
	var c Int32

	if c.Load() != 0 {
		t.Fatal("zero value should load 0")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := c.Load(); got != 8000 {
		t.Errorf("expected 8000, got %d", got)
	}

	if got := c.Sub(8000); got != 0 {
		t.Errorf("Sub should return 0, got %d", got)
	}
}

func TestInt64_StoreLoad(t *testing.T) {
	var c Int64

	c.Store(1 << 40)
	if got := c.Load(); got != 1<<40 {
		t.Errorf("expected %d, got %d", int64(1)<<40, got)
	}
	if got := c.Add(5); got != 1<<40+5 {
		t.Errorf("Add result off: %d", got)
	}
}

func TestInt64_CompareAndSwap(t *testing.T) {
	var c Int64
	c.Store(10)

	if !c.CompareAndSwap(10, 20) {
		t.Error("CAS with matching old should succeed")
	}
	if c.CompareAndSwap(10, 30) {
		t.Error("CAS with stale old should fail")
	}
	if got := c.Load(); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
}

func TestInt32_CASOneWinner(t *testing.T) {
	var c Int32
	winners := make(chan int, 8)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if c.CompareAndSwap(0, 1) {
				winners <- id
			}
		}(i)
	}
	wg.Wait()
	close(winners)

	count := 0
	for range winners {
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly one CAS winner, got %d", count)
	}
}

func TestPointer(t *testing.T) {
	type node struct{ id int }

	var p Pointer[node]
	if p.Load() != nil {
		t.Fatal("zero value should load nil")
	}

	a := &node{id: 1}
	b := &node{id: 2}

	p.Store(a)
	if p.Load() != a {
		t.Error("Load did not return stored pointer")
	}

	if !p.CompareAndSwap(a, b) {
		t.Error("CAS with matching old should succeed")
	}
	if p.CompareAndSwap(a, nil) {
		t.Error("CAS with stale old should fail")
	}
	if got := p.Load(); got != b || got.id != 2 {
		t.Errorf("expected node 2, got %+v", got)
	}
}

func TestFlag(t *testing.T) {
	var f Flag

	if f.Get() {
		t.Fatal("zero value should be lowered")
	}

	wins := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.TrySet() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected one TrySet winner, got %d", wins)
	}
	if !f.Get() {
		t.Error("flag should be raised")
	}

	f.Clear()
	if f.Get() {
		t.Error("flag should be lowered after Clear")
	}
}
