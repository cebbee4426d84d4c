package sprite

import (
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/ecs/component"
	"go.uber.org/zap"
)

// Pool manages sprite instances stored in a Table and advances their
// animations.
type Pool struct {
	table *ecs.Table
	clips *Library
	log   *zap.Logger
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithLogger sets the pool logger.
func WithLogger(l *zap.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPool registers the sprite store in t with room for capacity sprites.
func NewPool(t *ecs.Table, clips *Library, capacity int, opts ...PoolOption) (*Pool, error) {
	if clips == nil {
		clips = &Library{clips: map[component.ClipID]component.ClipDef{}}
	}
	if err := ecs.Register[component.Sprite](t, capacity); err != nil {
		return nil, fmt.Errorf("sprite: new pool: %w", err)
	}
	p := &Pool{table: t, clips: clips, log: t.Logger()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Clips returns the clip library.
func (p *Pool) Clips() *Library {
	return p.clips
}

// AddSprite creates a sprite playing clip at (x, y).
func (p *Pool) AddSprite(clip string, x, y, depth float64) (ecs.Handle, *component.Sprite, error) {
	id, def, err := p.clips.Lookup(clip)
	if err != nil {
		return 0, nil, err
	}
	s := component.Sprite{
		X:        x,
		Y:        y,
		Width:    def.FrameW,
		Height:   def.FrameH,
		Depth:    depth,
		Clip:     id,
		ClipName: def.Name,
	}
	s.Frame = startFrame(&s, def)
	return p.insert(s)
}

// CloneAdd copies every field of src into a new sprite.
func (p *Pool) CloneAdd(src ecs.Handle) (ecs.Handle, *component.Sprite, error) {
	s, err := p.Sprite(src)
	if err != nil {
		return 0, nil, err
	}
	return p.insert(*s)
}

func (p *Pool) insert(s component.Sprite) (ecs.Handle, *component.Sprite, error) {
	h, err := ecs.Insert(p.table, s)
	if err != nil {
		return 0, nil, fmt.Errorf("sprite: add %q: %w", s.ClipName, err)
	}
	ptr, err := ecs.Get[component.Sprite](p.table, h)
	if err != nil {
		return 0, nil, err
	}
	return h, ptr, nil
}

// Sprite returns the sprite behind h, valid for the current frame only.
func (p *Pool) Sprite(h ecs.Handle) (*component.Sprite, error) {
	s, err := ecs.Get[component.Sprite](p.table, h)
	if err != nil {
		return nil, fmt.Errorf("sprite: %w", err)
	}
	return s, nil
}

// RemoveSprite frees h. Collision rects linked to h are left alone.
func (p *Pool) RemoveSprite(h ecs.Handle) error {
	if _, err := ecs.Remove[component.Sprite](p.table, h); err != nil {
		return fmt.Errorf("sprite: %w", err)
	}
	return nil
}

// ChangeState switches h to clip. Asking for the clip already playing does
// nothing, so callers may call this every frame.
func (p *Pool) ChangeState(h ecs.Handle, clip string) error {
	s, err := p.Sprite(h)
	if err != nil {
		return err
	}
	id, def, err := p.clips.Lookup(clip)
	if err != nil {
		return err
	}
	if s.Clip == id {
		return nil
	}
	s.Clip = id
	s.ClipName = def.Name
	s.Elapsed = 0
	s.Finished = false
	s.Frame = startFrame(s, def)
	return nil
}

// Len returns the number of live sprites.
func (p *Pool) Len() int {
	return ecs.Count[component.Sprite](p.table)
}

// All yields every live sprite.
func (p *Pool) All() iter.Seq2[ecs.Handle, *component.Sprite] {
	return ecs.All[component.Sprite](p.table)
}

// Handles returns the live sprite handles in slot order.
func (p *Pool) Handles() []ecs.Handle {
	return ecs.StoreOf[component.Sprite](p.table).Handles()
}

// DrawOrder returns live handles sorted farthest first. Ties keep slot order.
func (p *Pool) DrawOrder() []ecs.Handle {
	type entry struct {
		h     ecs.Handle
		depth float64
	}
	entries := make([]entry, 0, p.Len())
	for h, s := range p.All() {
		entries = append(entries, entry{h: h, depth: s.Depth})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].depth != entries[j].depth {
			return entries[i].depth > entries[j].depth
		}
		return entries[i].h.Index() < entries[j].h.Index()
	})
	out := make([]ecs.Handle, len(entries))
	for i, e := range entries {
		out[i] = e.h
	}
	return out
}

// Advance moves every running animation forward by dt seconds.
func (p *Pool) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	for _, s := range p.All() {
		def, ok := p.clips.ByID(s.Clip)
		if !ok {
			continue
		}
		advance(s, def, dt)
	}
}

// ReloadClips replaces the clip library. Sprites keep their clip by name;
// frames past the end of a shortened clip are clamped, and sprites whose clip
// disappeared stop advancing until switched.
func (p *Pool) ReloadClips(defs []component.ClipDef) error {
	if err := p.clips.Replace(defs); err != nil {
		return err
	}
	for h, s := range p.All() {
		def, ok := p.clips.ByID(s.Clip)
		if !ok {
			p.log.Warn("sprite clip missing after reload", zap.Stringer("handle", h), zap.String("clip", s.ClipName))
			continue
		}
		if s.Frame > def.LastFrame() {
			s.Frame = def.LastFrame()
			s.Elapsed = 0
		}
	}
	p.log.Info("clips reloaded", zap.Int("clips", p.clips.Len()))
	return nil
}

func startFrame(s *component.Sprite, def component.ClipDef) int {
	if s.Backward(def) {
		return def.LastFrame()
	}
	return 0
}

func advance(s *component.Sprite, def component.ClipDef, dt float64) {
	if s.Halted() {
		return
	}
	last := def.LastFrame()
	if s.Frame < 0 || s.Frame > last {
		s.Frame = startFrame(s, def)
	}
	if def.Duration(s.Frame) <= 0 {
		return
	}
	s.Elapsed += dt

	looping := s.Looping(def)
	if looping {
		if cycle := cycleLength(def); cycle > 0 && s.Elapsed >= cycle {
			s.Elapsed = math.Mod(s.Elapsed, cycle)
		}
	}

	step := 1
	if s.Backward(def) {
		step = -1
	}
	// A frame steps once elapsed reaches its duration, boundary included.
	for {
		dur := def.Duration(s.Frame)
		if dur <= 0 || s.Elapsed < dur {
			return
		}
		s.Elapsed -= dur
		next := s.Frame + step
		if next < 0 || next > last {
			if !looping {
				s.Finished = true
				s.Elapsed = 0
				return
			}
			next = 0
			if step < 0 {
				next = last
			}
		}
		s.Frame = next
	}
}

// cycleLength is the time one full pass of def takes, or zero when any frame
// holds forever.
func cycleLength(def component.ClipDef) float64 {
	total := 0.0
	for i := 0; i < def.FrameCount; i++ {
		d := def.Duration(i)
		if d <= 0 {
			return 0
		}
		total += d
	}
	return total
}
