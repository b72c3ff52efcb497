package passes

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

/**
 * @brief Draws the background and the scene into SlotSingleOutput.
 */
type BasePass struct{}

func NewBasePass() *BasePass {
	return &BasePass{}
}

func (p *BasePass) Render(scene renderer.Scene, io *renderer.PassIO, context *metadata.RenderContext, driver renderer.Driver) error {
	output, err := io.Require(metadata.SlotSingleOutput)
	if err != nil {
		return fmt.Errorf("base pass: %w", err)
	}
	if err := output.Bind(); err != nil {
		return fmt.Errorf("base pass: %w", err)
	}
	if err := output.Clear(); err != nil {
		return fmt.Errorf("base pass: %w", err)
	}

	context.Pass = metadata.PassBase
	defer func() { context.Pass = metadata.PassNone }()

	if err := scene.RenderBackground(context, driver); err != nil {
		return fmt.Errorf("base pass background: %w", err)
	}
	if err := scene.Render(context, driver); err != nil {
		return fmt.Errorf("base pass: %w", err)
	}
	return nil
}

var _ renderer.RenderPass = (*BasePass)(nil)
