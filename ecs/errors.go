package ecs

import "errors"

var (
	// ErrNotFound is returned for dead handles, unregistered component types
	// and absent state singletons.
	ErrNotFound = errors.New("ecs: not found")
	// ErrAlreadyPresent is returned when a singleton or component type is
	// registered twice.
	ErrAlreadyPresent = errors.New("ecs: already present")
	// ErrUnknownClip is returned when an animation clip name was never registered.
	ErrUnknownClip = errors.New("ecs: unknown clip")
	// ErrCapacityExceeded is returned when a slot allocator is full.
	ErrCapacityExceeded = errors.New("ecs: capacity exceeded")
	// ErrInvalidHandle is returned when freeing a handle that is out of range,
	// stale or already free.
	ErrInvalidHandle = errors.New("ecs: invalid handle")
)
