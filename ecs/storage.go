package ecs

import (
	"container/heap"
	"fmt"
	"sort"
)

// SlotAllocator hands out reusable slot handles over a fixed-capacity range.
// Freed slots are reused lowest index first before the high-water mark grows.
type SlotAllocator struct {
	capacity int
	gen      []generation
	live     []bool
	free     freeList
	count    int
}

// NewSlotAllocator creates an allocator with room for capacity live slots.
func NewSlotAllocator(capacity int) *SlotAllocator {
	if capacity < 0 {
		capacity = 0
	}
	return &SlotAllocator{
		capacity: capacity,
		gen:      make([]generation, 0, capacity),
		live:     make([]bool, 0, capacity),
	}
}

// Allocate returns a handle to a free slot.
func (s *SlotAllocator) Allocate() (Handle, error) {
	var idx int
	switch {
	case s.free.Len() > 0:
		idx = heap.Pop(&s.free).(int)
	case len(s.gen) < s.capacity:
		idx = len(s.gen)
		s.gen = append(s.gen, 1)
		s.live = append(s.live, false)
	default:
		return 0, fmt.Errorf("ecs: allocate (capacity %d): %w", s.capacity, ErrCapacityExceeded)
	}
	s.live[idx] = true
	s.count++
	return makeHandle(slotIndex(idx), s.gen[idx]), nil
}

// Free releases the slot behind h. The slot generation is bumped so h and
// every copy of it stop resolving.
func (s *SlotAllocator) Free(h Handle) error {
	if !s.IsLive(h) {
		return fmt.Errorf("ecs: free %v: %w", h, ErrInvalidHandle)
	}
	idx := h.Index()
	s.live[idx] = false
	s.gen[idx]++
	if s.gen[idx] == 0 {
		// wrapped; zero is reserved for "never issued"
		s.gen[idx] = 1
	}
	heap.Push(&s.free, idx)
	s.count--
	return nil
}

// IsLive reports whether h refers to a currently allocated slot.
func (s *SlotAllocator) IsLive(h Handle) bool {
	if s == nil || !h.Valid() {
		return false
	}
	idx := h.Index()
	if idx >= len(s.gen) {
		return false
	}
	return s.live[idx] && s.gen[idx] == h.generation()
}

// Handle returns the live handle currently occupying idx.
func (s *SlotAllocator) Handle(idx int) (Handle, bool) {
	if s == nil || idx < 0 || idx >= len(s.gen) || !s.live[idx] {
		return 0, false
	}
	return makeHandle(slotIndex(idx), s.gen[idx]), true
}

// Len returns the number of live slots.
func (s *SlotAllocator) Len() int {
	if s == nil {
		return 0
	}
	return s.count
}

// Cap returns the fixed capacity.
func (s *SlotAllocator) Cap() int {
	if s == nil {
		return 0
	}
	return s.capacity
}

// Occupied returns the live slot indexes in ascending order.
func (s *SlotAllocator) Occupied() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, s.count)
	for i, ok := range s.live {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// freeList is a min-heap of free slot indexes.
type freeList []int

func (f freeList) Len() int           { return len(f) }
func (f freeList) Less(i, j int) bool { return f[i] < f[j] }
func (f freeList) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *freeList) Push(x any) {
	*f = append(*f, x.(int))
}

func (f *freeList) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}

// sorted returns a copy of the free list in ascending order.
func (f freeList) sorted() []int {
	out := append([]int(nil), f...)
	sort.Ints(out)
	return out
}

// FreeSlots returns the recycled slot indexes waiting for reuse, ascending.
func (s *SlotAllocator) FreeSlots() []int {
	if s == nil {
		return nil
	}
	return s.free.sorted()
}
