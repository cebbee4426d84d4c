package system

import (
	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/sprite"
)

// AnimationSystem advances every sprite in the pool by the frame delta.
type AnimationSystem struct {
	pool  *sprite.Pool
	delta func() float64
}

// NewAnimationSystem advances pool by whatever delta reports each frame.
func NewAnimationSystem(pool *sprite.Pool, delta func() float64) *AnimationSystem {
	return &AnimationSystem{pool: pool, delta: delta}
}

func (a *AnimationSystem) Update(_ *ecs.Table) error {
	if a == nil || a.pool == nil || a.delta == nil {
		return nil
	}
	a.pool.Advance(a.delta())
	return nil
}
