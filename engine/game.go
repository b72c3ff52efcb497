package engine

import (
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-choreographer/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Set by the engine before FnInitialize is called.
	Lights *systems.LightSystem
	State  interface{}

	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

/**
 * @brief What the game hands to the engine to draw a frame. Context is owned
 * by the engine and reused across frames; the game fills in the camera.
 */
type RenderPacket struct {
	DeltaTime float64
	Scene     renderer.Scene
	Metadata  renderer.RenderMetadata
	Context   *metadata.RenderContext
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
