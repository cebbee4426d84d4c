package collision

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/ecs/component"
	"go.uber.org/zap"
)

// Pair is two rects found overlapping by the last Refresh. A.Index() < B.Index().
type Pair struct {
	A ecs.Handle
	B ecs.Handle
}

// Manager answers AABB overlap queries over rects stored in a Table. Rects
// either follow a sprite (linked) or stand alone as static geometry.
type Manager struct {
	table     *ecs.Table
	links     map[ecs.Handle]ecs.Handle // sprite -> rect
	pairs     []Pair
	log       *zap.Logger
	sweep     []sweepEntry
	refreshes uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// RectOption sets optional rect metadata on insert.
type RectOption func(*component.CollisionRect)

// WithDepth sets the rect depth.
func WithDepth(depth float64) RectOption {
	return func(r *component.CollisionRect) { r.Depth = depth }
}

// WithLayer sets the rect layer bits and mask.
func WithLayer(layer, mask uint32) RectOption {
	return func(r *component.CollisionRect) {
		r.Layer = layer
		r.Mask = mask
	}
}

// NewManager registers the rect store in t with room for capacity rects.
func NewManager(t *ecs.Table, capacity int, opts ...Option) (*Manager, error) {
	if err := ecs.Register[component.CollisionRect](t, capacity); err != nil {
		return nil, fmt.Errorf("collision: new manager: %w", err)
	}
	m := &Manager{
		table: t,
		links: make(map[ecs.Handle]ecs.Handle),
		log:   t.Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// InsertCollisionRect adds a rect that follows the sprite behind link.
func (m *Manager) InsertCollisionRect(link ecs.Handle, x, y, w, h float64, opts ...RectOption) (ecs.Handle, error) {
	if !ecs.Has[component.Sprite](m.table, link) {
		return 0, fmt.Errorf("collision: link sprite %v: %w", link, ecs.ErrNotFound)
	}
	if existing, ok := m.RectFor(link); ok {
		return 0, fmt.Errorf("collision: sprite %v already linked to rect %v: %w", link, existing, ecs.ErrAlreadyPresent)
	}
	r := component.NewCollisionRect(x, y, w, h)
	r.Link = link
	rh, err := m.insert(r, opts)
	if err != nil {
		return 0, err
	}
	m.links[link] = rh
	return rh, nil
}

// AddCollisionRect adds free-standing static geometry.
func (m *Manager) AddCollisionRect(x, y, w, h float64, opts ...RectOption) (ecs.Handle, error) {
	return m.insert(component.NewCollisionRect(x, y, w, h), opts)
}

func (m *Manager) insert(r component.CollisionRect, opts []RectOption) (ecs.Handle, error) {
	for _, opt := range opts {
		opt(&r)
	}
	h, err := ecs.Insert(m.table, r)
	if err != nil {
		return 0, fmt.Errorf("collision: insert: %w", err)
	}
	return h, nil
}

// Rect returns the rect behind h, valid for the current frame only.
func (m *Manager) Rect(h ecs.Handle) (*component.CollisionRect, error) {
	r, err := ecs.Get[component.CollisionRect](m.table, h)
	if err != nil {
		return nil, fmt.Errorf("collision: %w", err)
	}
	return r, nil
}

// RectFor returns the rect linked to sprite, if any.
func (m *Manager) RectFor(sprite ecs.Handle) (ecs.Handle, bool) {
	rh, ok := m.links[sprite]
	if !ok || !ecs.Has[component.CollisionRect](m.table, rh) {
		return 0, false
	}
	return rh, true
}

// RemoveCollisionRect frees h. The linked sprite, if any, is left alone.
func (m *Manager) RemoveCollisionRect(h ecs.Handle) error {
	r, err := ecs.Remove[component.CollisionRect](m.table, h)
	if err != nil {
		return fmt.Errorf("collision: %w", err)
	}
	if r.Linked() && m.links[r.Link] == h {
		delete(m.links, r.Link)
	}
	return nil
}

// RemoveOrphans frees every linked rect whose sprite is gone and returns how
// many were removed.
func (m *Manager) RemoveOrphans() int {
	removed := 0
	for h, r := range ecs.All[component.CollisionRect](m.table) {
		if !r.Linked() || ecs.Has[component.Sprite](m.table, r.Link) {
			continue
		}
		m.log.Debug("removing orphaned collision rect", zap.Stringer("rect", h), zap.Stringer("sprite", r.Link))
		if err := m.RemoveCollisionRect(h); err == nil {
			removed++
		}
	}
	return removed
}

// CheckIfColliding reports whether a and b overlap right now. Touching edges
// do not collide.
func (m *Manager) CheckIfColliding(a, b ecs.Handle) (bool, error) {
	ra, err := m.Rect(a)
	if err != nil {
		return false, err
	}
	rb, err := m.Rect(b)
	if err != nil {
		return false, err
	}
	return ra.Overlaps(*rb), nil
}

// Colliding returns every rect currently overlapping h, in slot order.
func (m *Manager) Colliding(h ecs.Handle) ([]ecs.Handle, error) {
	r, err := m.Rect(h)
	if err != nil {
		return nil, err
	}
	var out []ecs.Handle
	for other, o := range ecs.All[component.CollisionRect](m.table) {
		if other == h || !r.Overlaps(*o) {
			continue
		}
		out = append(out, other)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out, nil
}

// SyncPos copies the linked sprite's position into h.
func (m *Manager) SyncPos(h ecs.Handle) error {
	r, s, err := m.linked(h)
	if err != nil {
		return err
	}
	r.SyncFrom(s)
	return nil
}

// SyncSizeAndPos copies the linked sprite's position and size into h.
func (m *Manager) SyncSizeAndPos(h ecs.Handle) error {
	r, s, err := m.linked(h)
	if err != nil {
		return err
	}
	r.SyncSizeFrom(s)
	return nil
}

// SyncAll copies position and size into every linked rect. Rects whose
// sprite is gone are reported in the joined error and left untouched.
func (m *Manager) SyncAll() error {
	var errs []error
	for h, r := range ecs.All[component.CollisionRect](m.table) {
		if !r.Linked() {
			continue
		}
		s, err := ecs.Get[component.Sprite](m.table, r.Link)
		if err != nil {
			errs = append(errs, fmt.Errorf("collision: sync rect %v: %w", h, err))
			continue
		}
		r.SyncSizeFrom(s)
	}
	return errors.Join(errs...)
}

func (m *Manager) linked(h ecs.Handle) (*component.CollisionRect, *component.Sprite, error) {
	r, err := m.Rect(h)
	if err != nil {
		return nil, nil, err
	}
	if !r.Linked() {
		return nil, nil, fmt.Errorf("collision: rect %v has no linked sprite: %w", h, ecs.ErrNotFound)
	}
	s, err := ecs.Get[component.Sprite](m.table, r.Link)
	if err != nil {
		return nil, nil, fmt.Errorf("collision: rect %v: %w", h, err)
	}
	return r, s, nil
}

// Len returns the number of live rects.
func (m *Manager) Len() int {
	return ecs.Count[component.CollisionRect](m.table)
}

type sweepEntry struct {
	h    ecs.Handle
	bb   cp.BB
	rect component.CollisionRect
}

// Refresh rebuilds the colliding-pair cache from the current geometry. The
// cache is a debugging view; CheckIfColliding is authoritative.
func (m *Manager) Refresh() {
	m.sweep = m.sweep[:0]
	for h, r := range ecs.All[component.CollisionRect](m.table) {
		m.sweep = append(m.sweep, sweepEntry{h: h, bb: r.Bounds(), rect: *r})
	}
	sort.Slice(m.sweep, func(i, j int) bool { return m.sweep[i].bb.L < m.sweep[j].bb.L })

	m.pairs = m.pairs[:0]
	for i := range m.sweep {
		a := &m.sweep[i]
		for j := i + 1; j < len(m.sweep); j++ {
			b := &m.sweep[j]
			if b.bb.L >= a.bb.R {
				break
			}
			if !a.rect.Overlaps(b.rect) || !a.rect.Accepts(b.rect) || !b.rect.Accepts(a.rect) {
				continue
			}
			p := Pair{A: a.h, B: b.h}
			if p.B.Index() < p.A.Index() {
				p.A, p.B = p.B, p.A
			}
			m.pairs = append(m.pairs, p)
		}
	}
	sort.Slice(m.pairs, func(i, j int) bool {
		if m.pairs[i].A.Index() != m.pairs[j].A.Index() {
			return m.pairs[i].A.Index() < m.pairs[j].A.Index()
		}
		return m.pairs[i].B.Index() < m.pairs[j].B.Index()
	})
	m.refreshes++
}

// CollidingList returns a copy of the pairs found by the last Refresh.
func (m *Manager) CollidingList() []Pair {
	return append([]Pair(nil), m.pairs...)
}

// Refreshes returns how many times the cache was rebuilt.
func (m *Manager) Refreshes() uint64 {
	return m.refreshes
}
