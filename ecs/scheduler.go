package ecs

import "fmt"

// System runs once per frame against the table.
type System interface {
	Update(t *Table) error
}

// SystemFunc adapts a function to System.
type SystemFunc func(t *Table) error

func (f SystemFunc) Update(t *Table) error { return f(t) }

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system and stops at the first error.
func (s *Scheduler) Update(t *Table) error {
	if s == nil {
		return nil
	}
	for i, system := range s.systems {
		if err := system.Update(t); err != nil {
			return fmt.Errorf("ecs: system %d (%T): %w", i, system, err)
		}
	}
	return nil
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
