package headless

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

// PostProcess is a compiled image program that records its blits.
type PostProcess struct {
	driver    *Driver
	shader    *metadata.ImageShader
	uniforms  map[string]float32
	destroyed bool
}

func (p *PostProcess) Shader() *metadata.ImageShader {
	return p.shader
}

func (p *PostProcess) SetUniform(name string, value float32) {
	p.uniforms[name] = value
}

// Uniform returns the last value set for name.
func (p *PostProcess) Uniform(name string) (float32, bool) {
	v, ok := p.uniforms[name]
	return v, ok
}

// UniformNames returns the names of all uniforms set so far, sorted.
func (p *PostProcess) UniformNames() []string {
	names := make([]string, 0, len(p.uniforms))
	for name := range p.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *PostProcess) Blit(source renderer.RenderTarget, attachment int, destination renderer.RenderTarget, extra []*metadata.Texture, driver renderer.Driver) error {
	if p.destroyed {
		return fmt.Errorf("program %s was destroyed", p.shader.Name)
	}
	if source == nil || destination == nil {
		return fmt.Errorf("program %s: %w", p.shader.Name, core.ErrMissingSlot)
	}
	if s, ok := source.(*Target); ok && s.destroyed {
		return fmt.Errorf("read %s: %w", s.name, core.ErrTargetDestroyed)
	}
	if attachment < 0 || attachment >= source.AttachmentCount() {
		return fmt.Errorf("program %s reads attachment %d of %s: %w", p.shader.Name, attachment, source.Name(), core.ErrUnsupportedTarget)
	}
	if got, want := 1+len(extra), len(p.shader.Samplers); got != want {
		return fmt.Errorf("program %s expects %d sampler(s), got %d", p.shader.Name, want, got)
	}
	if err := destination.Bind(); err != nil {
		return err
	}
	inputs := make([]string, 0, 1+len(extra))
	inputs = append(inputs, fmt.Sprintf("%s[%d]", source.Name(), attachment))
	for _, tex := range extra {
		if tex == nil {
			return fmt.Errorf("program %s: nil extra texture", p.shader.Name)
		}
		inputs = append(inputs, tex.Name)
	}
	p.driver.record(Command{
		Op:         OpPostProcess,
		Target:     source.Name(),
		Dest:       destination.Name(),
		Program:    p.shader.Name,
		Attachment: attachment,
		Inputs:     inputs,
	})
	return nil
}

func (p *PostProcess) Destroy() {
	p.destroyed = true
}

var _ renderer.ImagePostProcess = (*PostProcess)(nil)
var _ renderer.Driver = (*Driver)(nil)
