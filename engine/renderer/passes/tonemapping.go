package passes

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/math"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

const (
	DefaultExposure   float32 = 1.0
	DefaultWhitePoint float32 = 1.0
	DefaultGamma      float32 = 2.2
)

/**
 * @brief Compresses SlotToneMappingHDRInput into display range and gamma
 * corrects it into SlotToneMappingOutput. The program is rebuilt on the next
 * render after the method changes.
 */
type ToneMappingPass struct {
	method     metadata.ToneMappingMethod
	exposure   float32
	whitePoint float32
	gamma      float32

	program renderer.ImagePostProcess
	built   metadata.ToneMappingMethod
	dirty   bool
}

func NewToneMappingPass(method metadata.ToneMappingMethod, driver renderer.Driver) (*ToneMappingPass, error) {
	p := &ToneMappingPass{
		method:     method,
		exposure:   DefaultExposure,
		whitePoint: DefaultWhitePoint,
		gamma:      DefaultGamma,
	}
	if err := p.build(driver); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ToneMappingPass) Method() metadata.ToneMappingMethod {
	return p.method
}

func (p *ToneMappingPass) SetMethod(method metadata.ToneMappingMethod) {
	if method == p.method {
		return
	}
	p.method = method
	p.dirty = method != p.built
}

func (p *ToneMappingPass) Exposure() float32 {
	return p.exposure
}

func (p *ToneMappingPass) SetExposure(exposure float32) {
	p.exposure = math.Clamp(exposure, 0.01, 100)
}

func (p *ToneMappingPass) WhitePoint() float32 {
	return p.whitePoint
}

func (p *ToneMappingPass) SetWhitePoint(whitePoint float32) {
	p.whitePoint = math.Clamp(whitePoint, 0.01, 100)
}

func (p *ToneMappingPass) Gamma() float32 {
	return p.gamma
}

func (p *ToneMappingPass) SetGamma(gamma float32) {
	p.gamma = math.Clamp(gamma, 1, 4)
}

// Program returns the program used by the last render.
func (p *ToneMappingPass) Program() renderer.ImagePostProcess {
	return p.program
}

func (p *ToneMappingPass) Render(scene renderer.Scene, io *renderer.PassIO, context *metadata.RenderContext, driver renderer.Driver) error {
	input, err := io.Require(metadata.SlotToneMappingHDRInput)
	if err != nil {
		return fmt.Errorf("tone mapping: %w", err)
	}
	output, err := io.Require(metadata.SlotToneMappingOutput)
	if err != nil {
		return fmt.Errorf("tone mapping: %w", err)
	}
	if p.dirty {
		if err := p.build(driver); err != nil {
			return err
		}
	}

	p.program.SetUniform("exposure", p.exposure)
	p.program.SetUniform("white_point", p.whitePoint)
	p.program.SetUniform("gamma", p.gamma)
	if err := p.program.Blit(input, 0, output, nil, driver); err != nil {
		return fmt.Errorf("tone mapping %s: %w", p.method, err)
	}
	return nil
}

func (p *ToneMappingPass) Destroy() {
	if p.program != nil {
		p.program.Destroy()
		p.program = nil
	}
}

func (p *ToneMappingPass) build(driver renderer.Driver) error {
	program, err := driver.NewImagePostProcess(ToneMappingShader(p.method))
	if err != nil {
		return fmt.Errorf("tone mapping %s: %w", p.method, err)
	}
	if p.program != nil {
		p.program.Destroy()
		core.LogDebug("tone mapping switched from %s to %s", p.built, p.method)
	}
	p.program = program
	p.built = p.method
	p.dirty = false
	return nil
}

var _ renderer.RenderPass = (*ToneMappingPass)(nil)
