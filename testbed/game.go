package testbed

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/math"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32
	frame  uint64
	time   float64

	scene    *demoScene
	metadata *metadata.RenderMetadata

	sun     *metadata.Light
	spot    *metadata.Light
	fill    *metadata.Light
	cameraP math.Vec3
}

func NewTestGame(appConfig *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: appConfig,
			State: &gameState{
				metadata: &metadata.RenderMetadata{},
				cameraP:  math.NewVec3(10.5, 5.0, 9.5),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.Lights == nil {
		return fmt.Errorf("the engine is not yet initialized with the light system")
	}
	state := g.State.(*gameState)
	state.scene = newDemoScene(g.Lights)

	sun, err := g.Lights.Create(metadata.LightConfig{
		Type:          metadata.LightTypeDirectional,
		Colour:        math.NewVec3(1.0, 0.95, 0.8),
		Intensity:     1.0,
		Direction:     math.NewVec3(-0.3, -1.0, -0.2),
		CastsShadow:   true,
		ShadowMapSize: 2048,
	})
	if err != nil {
		return err
	}
	state.sun = sun

	if err := g.createSpot(state); err != nil {
		return err
	}

	fill, err := g.Lights.Create(metadata.LightConfig{
		Type:      metadata.LightTypeOmni,
		Colour:    math.NewVec3(0.4, 0.4, 0.5),
		Intensity: 0.3,
		Position:  math.NewVec3(0, 4, 0),
	})
	if err != nil {
		return err
	}
	state.fill = fill
	return nil
}

func (g *TestGame) createSpot(state *gameState) error {
	spot, err := g.Lights.Create(metadata.LightConfig{
		Type:           metadata.LightTypeSpot,
		Colour:         math.NewVec3(1, 1, 1),
		Intensity:      4.0,
		Position:       math.NewVec3(0, 6, 6),
		Direction:      math.NewVec3(0, -1, -1),
		SpotOuterAngle: 35,
		CastsShadow:    true,
		ShadowMapSize:  1024,
	})
	if err != nil {
		return err
	}
	state.spot = spot
	return nil
}

// Update animates the lights: the sun rotates, the spot light toggles its
// shadow every 120 frames and is recreated every 300.
func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.frame++
	state.time += deltaTime

	angle := float32(state.time * 0.2)
	state.sun.SetDirection(math.NewVec3(
		math.Sin(angle), -1.0, math.Cos(angle),
	).Normalized())

	if state.frame%120 == 0 {
		state.spot.SetCastsShadow(!state.spot.CastsShadow())
		core.LogDebug("spot light %s casts shadow: %t", state.spot.Handle(), state.spot.CastsShadow())
	}
	if state.frame%300 == 0 {
		old := state.spot.Handle()
		if err := g.Lights.Destroy(old); err != nil {
			return err
		}
		if err := g.createSpot(state); err != nil {
			return err
		}
		core.LogDebug("spot light recreated: %s -> %s", old, state.spot.Handle())
	}

	// bloom only while the spot light is bright enough to bleed
	state.metadata.RequiresBloom = state.spot.CastsShadow()
	return nil
}

func (g *TestGame) Render(packet *engine.RenderPacket, deltaTime float64) error {
	state := g.State.(*gameState)

	aspect := float32(1.0)
	if state.height > 0 {
		aspect = float32(state.width) / float32(state.height)
	}
	packet.Context.CameraPosition = state.cameraP
	packet.Context.ViewMatrix = math.NewMat4LookAt(state.cameraP, math.NewVec3Zero(), math.NewVec3Up())
	packet.Context.ProjectionMatrix = math.NewMat4Perspective(math.DegToRad(45.0), aspect, 0.1, 1000.0)
	packet.Scene = state.scene
	packet.Metadata = state.metadata

	if state.frame%60 == 0 {
		core.LogDebug("frame %d: %d shadow draws, %d base draws", state.frame,
			state.scene.draws[metadata.PassShadow], state.scene.draws[metadata.PassBase])
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	if state.scene != nil {
		core.LogInfo("testbed rendered %d frames (%d shadow draws, %d base draws)", state.frame,
			state.scene.draws[metadata.PassShadow], state.scene.draws[metadata.PassBase])
	}
	return nil
}
