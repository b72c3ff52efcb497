package systems

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/headless"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

func chainTargets(t *testing.T, d *headless.Driver) (renderer.RenderTarget, renderer.RenderTarget) {
	t.Helper()
	var out [2]renderer.RenderTarget
	for i := range out {
		rt, err := d.NewRenderTarget(metadata.RenderTargetColorHDR16, 1, 1)
		if err != nil {
			t.Fatal(err)
		}
		rt.SetViewport(metadata.NewViewport(0, 0, 32, 32))
		out[i] = rt
	}
	return out[0], out[1]
}

func TestPostProcessChainEndsInDestination(t *testing.T) {
	all := []metadata.PostProcessEffect{
		metadata.EffectGrayscale,
		metadata.EffectSepia,
		metadata.EffectToonify,
		metadata.EffectEmboss,
	}
	for n := 1; n <= len(all); n++ {
		d := headless.New()
		src, dst := chainTargets(t, d)
		f := NewPostProcessEffectFactory()
		if err := f.EnableEffects(all[:n]...); err != nil {
			t.Fatal(err)
		}
		d.Reset()

		processed, err := f.Handle(src, dst, d)
		if err != nil || !processed {
			t.Fatalf("%d effects: processed %t err %v", n, processed, err)
		}
		steps := commandsOf(d, headless.OpPostProcess)
		wantSteps := n
		if n%2 == 0 {
			wantSteps++
		}
		if len(steps) != wantSteps {
			t.Fatalf("%d effects: %d steps %v", n, len(steps), steps)
		}
		if steps[0].Target != src.Name() {
			t.Errorf("%d effects: chain starts from %s", n, steps[0].Target)
		}
		if last := steps[len(steps)-1]; last.Dest != dst.Name() {
			t.Errorf("%d effects: result left in %s", n, last.Dest)
		}
		if n%2 == 0 && steps[len(steps)-1].Program != "blit" {
			t.Errorf("%d effects: final copy uses %s", n, steps[len(steps)-1].Program)
		}
		for i := 0; i < n; i++ {
			if steps[i].Program != "effect_"+all[i].String() {
				t.Errorf("step %d runs %s", i, steps[i].Program)
			}
		}
		f.Destroy()
	}
}

func TestEmptyPostProcessChainIssuesNothing(t *testing.T) {
	d := headless.New()
	src, dst := chainTargets(t, d)
	d.Reset()
	processed, err := NewPostProcessEffectFactory().Handle(src, dst, d)
	if err != nil || processed {
		t.Fatalf("processed %t err %v", processed, err)
	}
	if n := len(d.Commands()); n != 0 {
		t.Errorf("%d commands for an empty chain", n)
	}
}

func TestPostProcessProgramsAreCached(t *testing.T) {
	d := headless.New()
	src, dst := chainTargets(t, d)
	f := NewPostProcessEffectFactory()
	if err := f.EnableEffects(metadata.EffectPixelated, metadata.EffectCrossHatch); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.Handle(src, dst, d); err != nil {
			t.Fatal(err)
		}
	}
	// two effects plus the copy
	if n := d.Count(headless.OpCompile, ""); n != 3 {
		t.Errorf("%d compilations", n)
	}
}

func TestEnableEffectsByName(t *testing.T) {
	f := NewPostProcessEffectFactory()
	if err := f.EnableEffectsByName("sepia", "Thermal_Vision"); err != nil {
		t.Fatal(err)
	}
	if got := f.Effects(); len(got) != 2 || got[0] != "effect_sepia" || got[1] != "effect_thermal_vision" {
		t.Errorf("effects %v", got)
	}
	if err := f.EnableEffectsByName("grayscale", "bogus"); !errors.Is(err, core.ErrUnknownEffect) {
		t.Errorf("unknown effect: %v", err)
	}
	if f.Len() != 2 {
		t.Error("a failed update leaves the chain unchanged")
	}
	if err := f.EnableEffects(metadata.EffectNone); !errors.Is(err, core.ErrUnknownEffect) {
		t.Errorf("EffectNone: %v", err)
	}
	f.ClearEffects()
	if f.Len() != 0 {
		t.Error("ClearEffects")
	}
}

func TestAddCustomEffect(t *testing.T) {
	f := NewPostProcessEffectFactory()
	tests := []struct {
		name    string
		shader  *metadata.ImageShader
		wantErr bool
	}{
		{"nil", nil, true},
		{"unnamed", &metadata.ImageShader{Samplers: []string{"source_texture"}}, true},
		{"two samplers", &metadata.ImageShader{Name: "mix", Samplers: []string{"a", "b"}}, true},
		{"valid", &metadata.ImageShader{Name: "vignette", Samplers: []string{"source_texture"}, Code: []string{"frag_color = vec4(1.0);"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.AddCustomEffect(tt.shader); (err != nil) != tt.wantErr {
				t.Errorf("AddCustomEffect() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
	if got := f.Effects(); len(got) != 1 || got[0] != "vignette" {
		t.Errorf("effects %v", got)
	}

	d := headless.New()
	src, dst := chainTargets(t, d)
	if _, err := f.Handle(src, dst, d); err != nil {
		t.Fatal(err)
	}
	if d.Count(headless.OpPostProcess, src.Name()) != 1 {
		t.Error("custom effect did not run")
	}
}
