package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/passes"
)

type postProcessEntry struct {
	effect metadata.PostProcessEffect
	shader *metadata.ImageShader
}

/**
 * @brief The ordered chain of full-screen effects run on the HDR image before
 * tone mapping. Programs are compiled on first use and kept until Destroy.
 */
type PostProcessEffectFactory struct {
	effects  []postProcessEntry
	programs map[string]renderer.ImagePostProcess
	blit     renderer.ImagePostProcess
}

func NewPostProcessEffectFactory() *PostProcessEffectFactory {
	return &PostProcessEffectFactory{
		programs: make(map[string]renderer.ImagePostProcess),
	}
}

// EnableEffects replaces the chain with the given built-in effects. On error
// the chain is left unchanged.
func (f *PostProcessEffectFactory) EnableEffects(effects ...metadata.PostProcessEffect) error {
	entries := make([]postProcessEntry, 0, len(effects))
	for _, effect := range effects {
		shader, err := passes.EffectShader(effect)
		if err != nil {
			return err
		}
		entries = append(entries, postProcessEntry{effect: effect, shader: shader})
	}
	f.effects = entries
	return nil
}

// EnableEffectsByName is EnableEffects for effect names as found in configuration.
func (f *PostProcessEffectFactory) EnableEffectsByName(names ...string) error {
	effects := make([]metadata.PostProcessEffect, 0, len(names))
	for _, name := range names {
		effect, ok := metadata.ParsePostProcessEffect(name)
		if !ok {
			return fmt.Errorf("effect '%s': %w", name, core.ErrUnknownEffect)
		}
		effects = append(effects, effect)
	}
	return f.EnableEffects(effects...)
}

// AddCustomEffect appends a user supplied program to the end of the chain.
func (f *PostProcessEffectFactory) AddCustomEffect(shader *metadata.ImageShader) error {
	if shader == nil || shader.Name == "" {
		return fmt.Errorf("custom effect needs a named shader: %w", core.ErrUnknownEffect)
	}
	if len(shader.Samplers) != 1 {
		return fmt.Errorf("custom effect '%s' must read exactly one sampler, has %d", shader.Name, len(shader.Samplers))
	}
	f.effects = append(f.effects, postProcessEntry{effect: metadata.EffectNone, shader: shader})
	return nil
}

func (f *PostProcessEffectFactory) ClearEffects() {
	f.effects = nil
}

// Effects returns the program names of the chain in order.
func (f *PostProcessEffectFactory) Effects() []string {
	names := make([]string, len(f.effects))
	for i, e := range f.effects {
		names[i] = e.shader.Name
	}
	return names
}

func (f *PostProcessEffectFactory) Len() int {
	return len(f.effects)
}

/**
 * @brief Runs the chain, reading source and ping-ponging between source and
 * destination so the final image always ends up in destination. An even
 * number of effects costs one extra copy.
 * @return true if anything was drawn; false (with no commands issued) when
 * the chain is empty.
 */
func (f *PostProcessEffectFactory) Handle(source, destination renderer.RenderTarget, driver renderer.Driver) (bool, error) {
	if len(f.effects) == 0 {
		return false, nil
	}

	from, to := source, destination
	for _, e := range f.effects {
		program, err := f.program(e.shader, driver)
		if err != nil {
			return false, err
		}
		if err := program.Blit(from, 0, to, nil, driver); err != nil {
			return false, fmt.Errorf("effect %s: %w", e.shader.Name, err)
		}
		from, to = to, from
	}

	// from holds the last result
	if from != destination {
		if f.blit == nil {
			blit, err := driver.NewImagePostProcess(passes.BlitShader())
			if err != nil {
				return false, fmt.Errorf("post process copy: %w", err)
			}
			f.blit = blit
		}
		if err := f.blit.Blit(from, 0, destination, nil, driver); err != nil {
			return false, fmt.Errorf("post process copy: %w", err)
		}
	}
	driver.UnbindShader()
	return true, nil
}

func (f *PostProcessEffectFactory) Destroy() {
	for name, p := range f.programs {
		p.Destroy()
		delete(f.programs, name)
	}
	if f.blit != nil {
		f.blit.Destroy()
		f.blit = nil
	}
}

func (f *PostProcessEffectFactory) program(shader *metadata.ImageShader, driver renderer.Driver) (renderer.ImagePostProcess, error) {
	if p, ok := f.programs[shader.Name]; ok {
		return p, nil
	}
	p, err := driver.NewImagePostProcess(shader)
	if err != nil {
		return nil, fmt.Errorf("effect %s: %w", shader.Name, err)
	}
	f.programs[shader.Name] = p
	return p, nil
}
