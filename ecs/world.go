package ecs

import (
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// DefaultCapacity is the slot count given to component types that are
// inserted without being registered first.
const DefaultCapacity = 1024

// Table owns one Store per component type and one value per state type.
// It is the single mutable resource shared by a frame and is not safe for
// concurrent use.
type Table struct {
	stores     map[reflect.Type]anyStore
	states     map[reflect.Type]any
	defaultCap int
	log        *zap.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for registration and removal diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.log = l
		}
	}
}

// WithDefaultCapacity sets the capacity used by auto-registered stores.
func WithDefaultCapacity(n int) Option {
	return func(t *Table) {
		if n > 0 {
			t.defaultCap = n
		}
	}
}

// NewTable creates an empty table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		stores:     make(map[reflect.Type]anyStore),
		states:     make(map[reflect.Type]any),
		defaultCap: DefaultCapacity,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Logger returns the table logger. Never nil.
func (t *Table) Logger() *zap.Logger {
	if t == nil || t.log == nil {
		return zap.NewNop()
	}
	return t.log
}

// StoreStats describes one registered component store.
type StoreStats struct {
	Type     string
	Live     int
	Capacity int
	// Free counts removed slots waiting for reuse.
	Free int
}

// Stats returns per-type store occupancy, sorted by type name.
func (t *Table) Stats() []StoreStats {
	if t == nil {
		return nil
	}
	out := make([]StoreStats, 0, len(t.stores))
	for _, s := range t.stores {
		out = append(out, StoreStats{Type: s.typeName(), Live: s.Len(), Capacity: s.Cap(), Free: len(s.FreeSlots())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// StateTypes returns the names of the registered state types, sorted.
func (t *Table) StateTypes() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.states))
	for typ := range t.states {
		out = append(out, typ.String())
	}
	sort.Strings(out)
	return out
}
