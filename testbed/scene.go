package testbed

import (
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-choreographer/engine/systems"
)

// demoScene exposes the lights of the light system and counts the draws the
// pipeline asks for, per pass.
type demoScene struct {
	lights *systems.LightSystem

	backgroundDraws int
	draws           map[metadata.PassKind]int
}

func newDemoScene(lights *systems.LightSystem) *demoScene {
	return &demoScene{
		lights: lights,
		draws:  make(map[metadata.PassKind]int),
	}
}

func (s *demoScene) Lights() []renderer.Light {
	lights := s.lights.Lights()
	out := make([]renderer.Light, len(lights))
	for i, l := range lights {
		out[i] = l
	}
	return out
}

func (s *demoScene) RenderBackground(context *metadata.RenderContext, driver renderer.Driver) error {
	s.backgroundDraws++
	return nil
}

func (s *demoScene) Render(context *metadata.RenderContext, driver renderer.Driver) error {
	s.draws[context.Pass]++
	return nil
}

var _ renderer.Scene = (*demoScene)(nil)
