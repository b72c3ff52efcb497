package renderer

import (
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/math"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

// Scene is what the pipeline needs from the scene graph.
type Scene interface {
	Lights() []Light
	RenderBackground(context *metadata.RenderContext, driver Driver) error
	Render(context *metadata.RenderContext, driver Driver) error
}

// Light is what the pipeline reads from, and writes to, a light.
type Light interface {
	// Handle is the stable identity used to key per-light pipeline state.
	Handle() core.Handle
	Type() metadata.LightType
	CastsShadow() bool
	ShadowMapSize() int
	SetShadowMapIndex(index int)
	Position() math.Vec3
	Direction() math.Vec3
	SpotOuterAngle() float32
	ShadowNearZ() float32
	ShadowFarZ() float32
	ShadowOrthographicSize() float32
}

// RenderMetadata carries per-frame content hints.
type RenderMetadata interface {
	RequiresBloomPass() bool
}

var _ Light = (*metadata.Light)(nil)
var _ RenderMetadata = (*metadata.RenderMetadata)(nil)
