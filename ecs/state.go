package ecs

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// AddState registers v as the single state value of type T.
func AddState[T any](t *Table, v T) error {
	typ := reflect.TypeFor[T]()
	if _, ok := t.states[typ]; ok {
		return fmt.Errorf("ecs: add state %s: %w", typ, ErrAlreadyPresent)
	}
	box := new(T)
	*box = v
	t.states[typ] = box
	t.log.Debug("state added", zap.Stringer("type", typ))
	return nil
}

// AddStatePtr registers p itself as the state of type T, so the caller and
// the table share one value.
func AddStatePtr[T any](t *Table, p *T) error {
	typ := reflect.TypeFor[T]()
	if p == nil {
		return fmt.Errorf("ecs: add state %s: nil pointer", typ)
	}
	if _, ok := t.states[typ]; ok {
		return fmt.Errorf("ecs: add state %s: %w", typ, ErrAlreadyPresent)
	}
	t.states[typ] = p
	t.log.Debug("state added", zap.Stringer("type", typ))
	return nil
}

// ReadState returns the state value of type T for in-place mutation. The
// pointer must not be kept past the current frame.
func ReadState[T any](t *Table) (*T, error) {
	typ := reflect.TypeFor[T]()
	box, ok := t.states[typ]
	if !ok {
		return nil, fmt.Errorf("ecs: read state %s: %w", typ, ErrNotFound)
	}
	return box.(*T), nil
}

// MustReadState is ReadState for states whose presence was checked at setup
// with RequireStates. It panics when the state is missing.
func MustReadState[T any](t *Table) *T {
	v, err := ReadState[T](t)
	if err != nil {
		panic(err)
	}
	return v
}

// HasState reports whether a state of type T is registered.
func HasState[T any](t *Table) bool {
	if t == nil {
		return false
	}
	_, ok := t.states[reflect.TypeFor[T]()]
	return ok
}

// RemoveState unregisters the state of type T and returns its value.
func RemoveState[T any](t *Table) (T, error) {
	var zero T
	typ := reflect.TypeFor[T]()
	box, ok := t.states[typ]
	if !ok {
		return zero, fmt.Errorf("ecs: remove state %s: %w", typ, ErrNotFound)
	}
	delete(t.states, typ)
	t.log.Debug("state removed", zap.Stringer("type", typ))
	return *box.(*T), nil
}

// StateCheck is a precondition evaluated by RequireStates.
type StateCheck func(*Table) error

// Expect returns a check that fails when no state of type T is registered.
func Expect[T any]() StateCheck {
	return func(t *Table) error {
		if HasState[T](t) {
			return nil
		}
		return fmt.Errorf("ecs: required state %s: %w", reflect.TypeFor[T](), ErrNotFound)
	}
}

// RequireStates runs every check and joins the failures, so a setup phase can
// report all missing resources at once.
func RequireStates(t *Table, checks ...StateCheck) error {
	var errs []error
	for _, check := range checks {
		if err := check(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
