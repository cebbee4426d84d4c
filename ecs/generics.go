package ecs

import (
	"fmt"
	"iter"
	"reflect"

	"go.uber.org/zap"
)

// Register creates the store for component type T with a fixed capacity.
func Register[T any](t *Table, capacity int) error {
	typ := reflect.TypeFor[T]()
	if _, ok := t.stores[typ]; ok {
		return fmt.Errorf("ecs: register %s: %w", typ, ErrAlreadyPresent)
	}
	t.stores[typ] = NewStore[T](capacity)
	t.log.Debug("component store registered", zap.Stringer("type", typ), zap.Int("capacity", capacity))
	return nil
}

// StoreOf returns the store for T, or nil when T was never registered.
func StoreOf[T any](t *Table) *Store[T] {
	if t == nil {
		return nil
	}
	s, ok := t.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return s.(*Store[T])
}

// Insert stores v as a new component of type T. Unregistered types are
// registered on first insert with the table default capacity.
func Insert[T any](t *Table, v T) (Handle, error) {
	s := StoreOf[T](t)
	if s == nil {
		if err := Register[T](t, t.defaultCap); err != nil {
			return 0, err
		}
		s = StoreOf[T](t)
	}
	return s.Insert(v)
}

// Get returns the T behind h. The pointer is only valid for the current frame.
func Get[T any](t *Table, h Handle) (*T, error) {
	s := StoreOf[T](t)
	if s == nil {
		return nil, fmt.Errorf("ecs: get %s %v: type not registered: %w", reflect.TypeFor[T](), h, ErrNotFound)
	}
	return s.Get(h)
}

// Has reports whether h is a live T.
func Has[T any](t *Table, h Handle) bool {
	return StoreOf[T](t).Has(h)
}

// Remove frees h and returns its value.
func Remove[T any](t *Table, h Handle) (T, error) {
	s := StoreOf[T](t)
	if s == nil {
		var zero T
		return zero, fmt.Errorf("ecs: remove %s %v: type not registered: %w", reflect.TypeFor[T](), h, ErrNotFound)
	}
	v, err := s.Remove(h)
	if err != nil {
		return v, err
	}
	t.log.Debug("component removed", zap.String("type", s.name), zap.Stringer("handle", h))
	return v, nil
}

// All yields every live T. An unregistered type yields nothing.
func All[T any](t *Table) iter.Seq2[Handle, *T] {
	return StoreOf[T](t).All()
}

// Count returns the number of live T values.
func Count[T any](t *Table) int {
	s := StoreOf[T](t)
	if s == nil {
		return 0
	}
	return s.Len()
}

// Occupied returns the live slot indexes of T in ascending order.
func Occupied[T any](t *Table) []int {
	s := StoreOf[T](t)
	if s == nil {
		return nil
	}
	return s.Occupied()
}
