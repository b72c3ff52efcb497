package passes

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

// DefaultBlurIterations is the number of separable blur steps run per frame.
const DefaultBlurIterations = 10

// bloomAttachment is the attachment of the HDR target holding the bright pass.
const bloomAttachment = 1

/**
 * @brief Blurs the bright pass of SlotGaussianInput by ping-ponging between
 * SlotGaussianPingPongA and SlotGaussianPingPongB, alternating horizontal and
 * vertical steps. The iteration count is always even so the result is left in
 * SlotGaussianPingPongB.
 */
type GaussianBlurPass struct {
	iterations int
	horizontal renderer.ImagePostProcess
	vertical   renderer.ImagePostProcess
}

func NewGaussianBlurPass(iterations int, driver renderer.Driver) (*GaussianBlurPass, error) {
	if iterations <= 0 {
		iterations = DefaultBlurIterations
	}
	if iterations%2 != 0 {
		iterations++
	}
	horizontal, err := driver.NewImagePostProcess(GaussianBlurShader(true))
	if err != nil {
		return nil, fmt.Errorf("gaussian blur: %w", err)
	}
	vertical, err := driver.NewImagePostProcess(GaussianBlurShader(false))
	if err != nil {
		horizontal.Destroy()
		return nil, fmt.Errorf("gaussian blur: %w", err)
	}
	return &GaussianBlurPass{
		iterations: iterations,
		horizontal: horizontal,
		vertical:   vertical,
	}, nil
}

func (p *GaussianBlurPass) Iterations() int {
	return p.iterations
}

func (p *GaussianBlurPass) Render(scene renderer.Scene, io *renderer.PassIO, context *metadata.RenderContext, driver renderer.Driver) error {
	input, err := io.Require(metadata.SlotGaussianInput)
	if err != nil {
		return fmt.Errorf("gaussian blur: %w", err)
	}
	a, err := io.Require(metadata.SlotGaussianPingPongA)
	if err != nil {
		return fmt.Errorf("gaussian blur: %w", err)
	}
	b, err := io.Require(metadata.SlotGaussianPingPongB)
	if err != nil {
		return fmt.Errorf("gaussian blur: %w", err)
	}

	source, attachment := input, bloomAttachment
	if input.AttachmentCount() <= bloomAttachment {
		attachment = 0
	}
	for i := 0; i < p.iterations; i++ {
		program, destination := p.horizontal, a
		if i%2 == 1 {
			program, destination = p.vertical, b
		}
		if err := program.Blit(source, attachment, destination, nil, driver); err != nil {
			return fmt.Errorf("gaussian blur step %d: %w", i, err)
		}
		source, attachment = destination, 0
	}
	driver.UnbindShader()
	return nil
}

func (p *GaussianBlurPass) Destroy() {
	p.horizontal.Destroy()
	p.vertical.Destroy()
}

var _ renderer.RenderPass = (*GaussianBlurPass)(nil)
