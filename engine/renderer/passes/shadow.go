package passes

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/math"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

/**
 * @brief Renders the depth of the scene as seen from a single light. The
 * pass belongs to one light for its whole life; the layer it writes to is
 * chosen by the caller each frame through SetSlot.
 */
type ShadowMapPass struct {
	light renderer.Light
	slot  int
	// view-projection of the last rendered frame
	viewProjection math.Mat4
}

func NewShadowMapPass(light renderer.Light) *ShadowMapPass {
	return &ShadowMapPass{
		light:          light,
		slot:           metadata.NoShadowMapIndex,
		viewProjection: math.NewMat4Identity(),
	}
}

func (p *ShadowMapPass) Light() renderer.Light {
	return p.light
}

func (p *ShadowMapPass) Slot() int {
	return p.slot
}

func (p *ShadowMapPass) SetSlot(slot int) {
	p.slot = slot
}

func (p *ShadowMapPass) ViewProjection() math.Mat4 {
	return p.viewProjection
}

func (p *ShadowMapPass) Render(scene renderer.Scene, io *renderer.PassIO, context *metadata.RenderContext, driver renderer.Driver) error {
	if p.slot < 0 || p.slot >= metadata.MaxLights {
		return fmt.Errorf("shadow pass for light %s has no slot", p.light.Handle())
	}
	output, err := io.Require(metadata.SlotSingleOutput)
	if err != nil {
		return fmt.Errorf("shadow pass: %w", err)
	}

	p.viewProjection = LightViewProjection(p.light)
	context.ShadowViewProjection[p.slot] = p.viewProjection

	if err := output.Bind(); err != nil {
		return fmt.Errorf("shadow pass: %w", err)
	}
	if err := output.Clear(); err != nil {
		return fmt.Errorf("shadow pass: %w", err)
	}

	context.Pass = metadata.PassShadow
	defer func() { context.Pass = metadata.PassNone }()

	if err := scene.Render(context, driver); err != nil {
		return fmt.Errorf("shadow pass for light %s: %w", p.light.Handle(), err)
	}
	return nil
}

// LightViewProjection returns the light space transform used to render and
// sample a light's shadow map. Directional lights use an orthographic
// projection centred on the light position, spot lights a perspective one
// covering the whole cone.
func LightViewProjection(light renderer.Light) math.Mat4 {
	direction := light.Direction().Normalized()
	if direction.LengthSquared() == 0 {
		direction = math.NewVec3(0, -1, 0)
	}
	up := math.NewVec3Up()
	if d := direction.Dot(up); d > 0.999 || d < -0.999 {
		up = math.NewVec3Forward()
	}

	near, far := light.ShadowNearZ(), light.ShadowFarZ()
	position := light.Position()
	var projection math.Mat4
	switch light.Type() {
	case metadata.LightTypeSpot:
		fov := math.Clamp(light.SpotOuterAngle()*2, 1, 179)
		projection = math.NewMat4Perspective(math.DegToRad(fov), 1, near, far)
	default:
		size := light.ShadowOrthographicSize()
		if position.LengthSquared() == 0 {
			// no position for a directional light: back off along the direction
			position = direction.MulScalar(-far * 0.5)
		}
		projection = math.NewMat4Orthographic(-size, size, -size, size, near, far)
	}

	view := math.NewMat4LookAt(position, position.Add(direction), up)
	return view.Mul(projection)
}

var _ renderer.RenderPass = (*ShadowMapPass)(nil)
