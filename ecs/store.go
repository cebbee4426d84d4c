package ecs

import (
	"fmt"
	"iter"
	"reflect"
)

// Store holds every live value of one component type, indexed by Handle.
// Values live in a slot-indexed array allocated up front, so a pointer
// returned by Get stays put until its slot is removed. Callers must still
// re-fetch every frame.
type Store[T any] struct {
	name   string
	slots  *SlotAllocator
	values []T
	live   sparseSet
}

// NewStore creates a store with room for capacity values.
func NewStore[T any](capacity int) *Store[T] {
	return &Store[T]{
		name:   reflect.TypeFor[T]().String(),
		slots:  NewSlotAllocator(capacity),
		values: make([]T, 0, capacity),
	}
}

// Insert stores v in a fresh slot.
func (s *Store[T]) Insert(v T) (Handle, error) {
	h, err := s.slots.Allocate()
	if err != nil {
		return 0, fmt.Errorf("ecs: insert %s: %w", s.name, err)
	}
	idx := h.Index()
	if idx == len(s.values) {
		s.values = append(s.values, v)
	} else {
		s.values[idx] = v
	}
	s.live.add(idx)
	return h, nil
}

// Get returns a pointer to the value behind h.
func (s *Store[T]) Get(h Handle) (*T, error) {
	if !s.slots.IsLive(h) {
		return nil, fmt.Errorf("ecs: get %s %v: %w", s.name, h, ErrNotFound)
	}
	return &s.values[h.Index()], nil
}

// Has reports whether h is live in this store.
func (s *Store[T]) Has(h Handle) bool {
	return s != nil && s.slots.IsLive(h)
}

// Remove frees h and returns the value it held.
func (s *Store[T]) Remove(h Handle) (T, error) {
	var zero T
	if !s.slots.IsLive(h) {
		return zero, fmt.Errorf("ecs: remove %s %v: %w", s.name, h, ErrNotFound)
	}
	idx := h.Index()
	v := s.values[idx]
	if err := s.slots.Free(h); err != nil {
		return zero, err
	}
	s.values[idx] = zero
	s.live.remove(idx)
	return v, nil
}

// All yields every live (handle, value) pair. The sequence is lazy and can be
// ranged over any number of times. The handles are fixed when iteration
// starts: entries removed mid-iteration are skipped, and entries inserted
// mid-iteration are not visited, even when they reuse a slot still ahead.
func (s *Store[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		if s == nil {
			return
		}
		snapshot := s.live.snapshot()
		handles := make([]Handle, 0, len(snapshot))
		for _, idx := range snapshot {
			if h, ok := s.slots.Handle(idx); ok {
				handles = append(handles, h)
			}
		}
		for _, h := range handles {
			if !s.slots.IsLive(h) {
				continue
			}
			if !yield(h, &s.values[h.Index()]) {
				return
			}
		}
	}
}

// Handles returns the live handles in ascending slot order.
func (s *Store[T]) Handles() []Handle {
	occupied := s.slots.Occupied()
	out := make([]Handle, 0, len(occupied))
	for _, idx := range occupied {
		if h, ok := s.slots.Handle(idx); ok {
			out = append(out, h)
		}
	}
	return out
}

func (s *Store[T]) Len() int         { return s.live.len() }
func (s *Store[T]) Cap() int         { return s.slots.Cap() }
func (s *Store[T]) Occupied() []int  { return s.slots.Occupied() }
func (s *Store[T]) FreeSlots() []int { return s.slots.FreeSlots() }
func (s *Store[T]) typeName() string { return s.name }

// anyStore is the type-erased view the Table keeps of each Store.
type anyStore interface {
	Len() int
	Cap() int
	Occupied() []int
	FreeSlots() []int
	typeName() string
}
