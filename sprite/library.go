package sprite

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/ecs/component"
)

// IDOf resolves a clip name to its ClipID.
func IDOf(name string) component.ClipID {
	return component.ClipID(xxhash.Sum64String(name))
}

// Library stores clip definitions by name.
type Library struct {
	clips map[component.ClipID]component.ClipDef
}

// NewLibrary creates a library holding defs.
func NewLibrary(defs ...component.ClipDef) (*Library, error) {
	l := &Library{clips: make(map[component.ClipID]component.ClipDef, len(defs))}
	for _, def := range defs {
		if _, err := l.Register(def); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Register adds a clip definition. Names are unique.
func (l *Library) Register(def component.ClipDef) (component.ClipID, error) {
	if err := def.Validate(); err != nil {
		return 0, fmt.Errorf("sprite: register clip: %w", err)
	}
	id := IDOf(def.Name)
	if existing, ok := l.clips[id]; ok {
		if existing.Name == def.Name {
			return 0, fmt.Errorf("sprite: register clip %q: %w", def.Name, ecs.ErrAlreadyPresent)
		}
		return 0, fmt.Errorf("sprite: register clip %q: id collides with %q", def.Name, existing.Name)
	}
	def.Durations = append([]float64(nil), def.Durations...)
	l.clips[id] = def
	return id, nil
}

// Lookup resolves name to its id and definition.
func (l *Library) Lookup(name string) (component.ClipID, component.ClipDef, error) {
	id := IDOf(name)
	def, ok := l.ByID(id)
	if !ok || def.Name != name {
		return 0, component.ClipDef{}, fmt.Errorf("sprite: clip %q: %w", name, ecs.ErrUnknownClip)
	}
	return id, def, nil
}

// ByID returns the definition registered under id.
func (l *Library) ByID(id component.ClipID) (component.ClipDef, bool) {
	if l == nil {
		return component.ClipDef{}, false
	}
	def, ok := l.clips[id]
	return def, ok
}

// Names returns the registered clip names, sorted.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.clips))
	for _, def := range l.clips {
		out = append(out, def.Name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered clips.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.clips)
}

// Replace swaps the whole clip set for defs. The library is left untouched
// when any definition is invalid.
func (l *Library) Replace(defs []component.ClipDef) error {
	next, err := NewLibrary(defs...)
	if err != nil {
		return err
	}
	l.clips = next.clips
	return nil
}
