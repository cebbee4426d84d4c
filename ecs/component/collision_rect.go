package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spritecore/ecs"
)

// CollisionRect is an axis-aligned box. X and Y are the center.
type CollisionRect struct {
	X     float64
	Y     float64
	HalfW float64
	HalfH float64
	Depth float64

	Layer uint32
	// Mask selects the layers this rect reports in the colliding-pair cache.
	// Zero accepts every layer.
	Mask uint32

	// Link is the sprite this rect follows, or zero for static geometry.
	Link ecs.Handle
}

// NewCollisionRect builds a rect from a center and a full size.
func NewCollisionRect(x, y, w, h float64) CollisionRect {
	return CollisionRect{X: x, Y: y, HalfW: w / 2, HalfH: h / 2}
}

// Linked reports whether the rect follows a sprite.
func (r CollisionRect) Linked() bool {
	return r.Link != 0
}

// Bounds returns the rect as a chipmunk bounding box.
func (r CollisionRect) Bounds() cp.BB {
	return cp.BB{L: r.X - r.HalfW, B: r.Y - r.HalfH, R: r.X + r.HalfW, T: r.Y + r.HalfH}
}

// Overlaps reports whether the two rects overlap on both axes. Touching
// edges do not count.
func (r CollisionRect) Overlaps(o CollisionRect) bool {
	return math.Abs(r.X-o.X) < r.HalfW+o.HalfW &&
		math.Abs(r.Y-o.Y) < r.HalfH+o.HalfH
}

// Accepts reports whether o is on a layer r's mask selects.
func (r CollisionRect) Accepts(o CollisionRect) bool {
	return r.Mask == 0 || r.Mask&o.Layer != 0
}

// SyncFrom copies a sprite's position into the rect.
func (r *CollisionRect) SyncFrom(s *Sprite) {
	r.X = s.X
	r.Y = s.Y
}

// SyncSizeFrom copies a sprite's position and size into the rect.
func (r *CollisionRect) SyncSizeFrom(s *Sprite) {
	r.SyncFrom(s)
	r.HalfW = s.Width / 2
	r.HalfH = s.Height / 2
}
