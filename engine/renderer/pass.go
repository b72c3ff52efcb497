package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

// RenderPass is a unit of rendering that reads and writes the targets bound
// to its slots.
type RenderPass interface {
	Render(scene Scene, io *PassIO, context *metadata.RenderContext, driver Driver) error
}

// PassIO binds render targets to the closed set of pass slots.
type PassIO struct {
	targets [metadata.RenderSlotCount]RenderTarget
}

func (p *PassIO) Set(slot metadata.RenderSlot, target RenderTarget) {
	p.targets[slot] = target
}

func (p *PassIO) Get(slot metadata.RenderSlot) RenderTarget {
	return p.targets[slot]
}

// Require returns the target bound to slot, or ErrMissingSlot.
func (p *PassIO) Require(slot metadata.RenderSlot) (RenderTarget, error) {
	if slot < 0 || slot >= metadata.RenderSlotCount || p.targets[slot] == nil {
		return nil, fmt.Errorf("slot %s: %w", slot, core.ErrMissingSlot)
	}
	return p.targets[slot], nil
}

func (p *PassIO) Reset() {
	p.targets = [metadata.RenderSlotCount]RenderTarget{}
}
