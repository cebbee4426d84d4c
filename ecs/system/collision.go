package system

import (
	"github.com/milk9111/spritecore/collision"
	"github.com/milk9111/spritecore/ecs"
)

// CollisionCacheSystem rebuilds the manager's debug pair cache after the
// client update has moved everything for the frame.
type CollisionCacheSystem struct {
	manager *collision.Manager
}

func NewCollisionCacheSystem(m *collision.Manager) *CollisionCacheSystem {
	return &CollisionCacheSystem{manager: m}
}

func (c *CollisionCacheSystem) Update(_ *ecs.Table) error {
	if c == nil || c.manager == nil {
		return nil
	}
	c.manager.Refresh()
	return nil
}
