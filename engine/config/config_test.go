package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cc := cfg.Choreographer()
	if !cc.Shadows || !cc.GammaCorrection || !cc.Bloom || cc.RenderToTexture {
		t.Errorf("choreographer config %+v", cc)
	}
	if cc.ToneMapping != metadata.ToneMappingReinhard || cc.MaxShadowLights != metadata.MaxLights {
		t.Errorf("choreographer config %+v", cc)
	}
	if cfg.LogLevel() != core.InfoLevel {
		t.Errorf("log level %v", cfg.LogLevel())
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
[log]
level = "debug"

[pipeline]
bloom = false
render_to_texture = true
max_shadow_lights = 4

[tone_mapping]
method = "hable"
exposure = 1.5

[post_process]
effects = ["sepia", "toonify"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel() != core.DebugLevel {
		t.Errorf("log level %v", cfg.LogLevel())
	}
	if cfg.Pipeline.Bloom || !cfg.Pipeline.RenderToTexture || cfg.Pipeline.MaxShadowLights != 4 {
		t.Errorf("pipeline %+v", cfg.Pipeline)
	}
	if !cfg.Pipeline.Shadows || cfg.Pipeline.BlurScaling != 0.25 {
		t.Errorf("missing keys keep their default: %+v", cfg.Pipeline)
	}
	if cfg.ToneMappingMethod() != metadata.ToneMappingHable || cfg.ToneMapping.Exposure != 1.5 || cfg.ToneMapping.WhitePoint != 1 {
		t.Errorf("tone mapping %+v", cfg.ToneMapping)
	}
	if len(cfg.PostProcess.Effects) != 2 || cfg.PostProcess.Effects[1] != "toonify" {
		t.Errorf("effects %v", cfg.PostProcess.Effects)
	}
	if cfg.App.Width != 1280 {
		t.Errorf("app %+v", cfg.App)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown key", "[pipeline]\nhdr = true\n", core.ErrInvalidConfig},
		{"syntax", "[pipeline\n", core.ErrInvalidConfig},
		{"log level", "[log]\nlevel = \"loud\"\n", core.ErrInvalidConfig},
		{"app size", "[app]\nwidth = 0\n", core.ErrInvalidConfig},
		{"blur scaling", "[pipeline]\nblur_scaling = 1.5\n", core.ErrInvalidConfig},
		{"blur iterations", "[pipeline]\nblur_iterations = 0\n", core.ErrInvalidConfig},
		{"no shadow slots", "[pipeline]\nmax_shadow_lights = 0\n", core.ErrInvalidConfig},
		{"too many shadow slots", "[pipeline]\nmax_shadow_lights = 9\n", core.ErrTooManyLights},
		{"tone mapping", "[tone_mapping]\nmethod = \"aces\"\n", core.ErrInvalidConfig},
		{"exposure", "[tone_mapping]\nexposure = -1.0\n", core.ErrInvalidConfig},
		{"effect", "[post_process]\neffects = [\"blur\"]\n", core.ErrUnknownEffect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if _, err := Load(path); err == nil {
		t.Error("missing file loaded")
	}
	if err := os.WriteFile(path, []byte("[app]\nstereo = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.App.Stereo {
		t.Error("stereo not loaded")
	}
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.DebugShadowMaps = true
	cfg.PostProcess.Effects = []string{"emboss"}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("%v\n%s", err, data)
	}
	if !back.Pipeline.DebugShadowMaps || len(back.PostProcess.Effects) != 1 {
		t.Errorf("parsed %+v", back)
	}
}
