package systems

import (
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/passes"
)

// shadowPassCache maps a light handle to the shadow pass rendering it. It is
// rebuilt every frame from the lights processed in that frame, so lights that
// stop casting or leave the scene drop out.
type shadowPassCache struct {
	passes map[core.Handle]*passes.ShadowMapPass
	// handles in the order they were added (scene order)
	order []core.Handle
}

func newShadowPassCache(capacity int) *shadowPassCache {
	return &shadowPassCache{
		passes: make(map[core.Handle]*passes.ShadowMapPass, capacity),
		order:  make([]core.Handle, 0, capacity),
	}
}

func (c *shadowPassCache) get(h core.Handle) (*passes.ShadowMapPass, bool) {
	p, ok := c.passes[h]
	return p, ok
}

func (c *shadowPassCache) contains(h core.Handle) bool {
	_, ok := c.passes[h]
	return ok
}

func (c *shadowPassCache) put(h core.Handle, p *passes.ShadowMapPass) {
	if _, ok := c.passes[h]; !ok {
		c.order = append(c.order, h)
	}
	c.passes[h] = p
}

func (c *shadowPassCache) len() int {
	return len(c.passes)
}

func (c *shadowPassCache) handles() []core.Handle {
	return append([]core.Handle(nil), c.order...)
}
