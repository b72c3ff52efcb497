// Package config loads the engine configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-choreographer/engine/systems"
)

const DefaultFileName = "choreographer.toml"

type LogConfig struct {
	Level string `toml:"level"`
}

type AppConfig struct {
	Name   string `toml:"name"`
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	Stereo bool   `toml:"stereo"`
}

type PipelineConfig struct {
	Shadows         bool    `toml:"shadows"`
	GammaCorrection bool    `toml:"gamma_correction"`
	Bloom           bool    `toml:"bloom"`
	RenderToTexture bool    `toml:"render_to_texture"`
	BlurScaling     float32 `toml:"blur_scaling"`
	BlurIterations  int     `toml:"blur_iterations"`
	MaxShadowLights int     `toml:"max_shadow_lights"`
	DebugShadowMaps bool    `toml:"debug_shadow_maps"`
}

type ToneMappingConfig struct {
	Method     string  `toml:"method"`
	Exposure   float32 `toml:"exposure"`
	WhitePoint float32 `toml:"white_point"`
}

type PostProcessConfig struct {
	Effects []string `toml:"effects"`
}

type Config struct {
	Log         LogConfig         `toml:"log"`
	App         AppConfig         `toml:"app"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	ToneMapping ToneMappingConfig `toml:"tone_mapping"`
	PostProcess PostProcessConfig `toml:"post_process"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		App: AppConfig{
			Name:   "Anima Choreographer",
			Width:  1280,
			Height: 720,
		},
		Pipeline: PipelineConfig{
			Shadows:         true,
			GammaCorrection: true,
			Bloom:           true,
			BlurScaling:     0.25,
			BlurIterations:  10,
			MaxShadowLights: metadata.MaxLights,
		},
		ToneMapping: ToneMappingConfig{
			Method:     "reinhard",
			Exposure:   1.0,
			WhitePoint: 1.0,
		},
		PostProcess: PostProcessConfig{
			Effects: []string{},
		},
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default value; unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config line %d column %d: %s: %w", row, col, derr.Error(), core.ErrInvalidConfig)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("config: %s: %w", serr.String(), core.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %v: %w", err, core.ErrInvalidConfig)
	}
	if c.App.Width <= 0 || c.App.Height <= 0 {
		return fmt.Errorf("app size %dx%d: %w", c.App.Width, c.App.Height, core.ErrInvalidConfig)
	}
	if c.Pipeline.BlurScaling <= 0 || c.Pipeline.BlurScaling > 1 {
		return fmt.Errorf("pipeline.blur_scaling must be in (0, 1], got %g: %w", c.Pipeline.BlurScaling, core.ErrInvalidConfig)
	}
	if c.Pipeline.BlurIterations <= 0 {
		return fmt.Errorf("pipeline.blur_iterations must be positive, got %d: %w", c.Pipeline.BlurIterations, core.ErrInvalidConfig)
	}
	if c.Pipeline.MaxShadowLights <= 0 {
		return fmt.Errorf("pipeline.max_shadow_lights must be positive, got %d: %w", c.Pipeline.MaxShadowLights, core.ErrInvalidConfig)
	}
	if c.Pipeline.MaxShadowLights > metadata.MaxLights {
		return fmt.Errorf("pipeline.max_shadow_lights is %d, at most %d: %w", c.Pipeline.MaxShadowLights, metadata.MaxLights, core.ErrTooManyLights)
	}
	if _, err := metadata.ParseToneMappingMethod(c.ToneMapping.Method); err != nil {
		return fmt.Errorf("tone_mapping.method: %v: %w", err, core.ErrInvalidConfig)
	}
	if c.ToneMapping.Exposure <= 0 || c.ToneMapping.WhitePoint <= 0 {
		return fmt.Errorf("tone_mapping exposure and white_point must be positive: %w", core.ErrInvalidConfig)
	}
	for _, name := range c.PostProcess.Effects {
		if _, ok := metadata.ParsePostProcessEffect(name); !ok {
			return fmt.Errorf("post_process.effects: '%s': %w", name, core.ErrUnknownEffect)
		}
	}
	return nil
}

// LogLevel returns the parsed log level; Validate guarantees it parses.
func (c *Config) LogLevel() core.LogLevel {
	level, err := core.ParseLogLevel(c.Log.Level)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

// ToneMappingMethod returns the parsed tone mapping operator.
func (c *Config) ToneMappingMethod() metadata.ToneMappingMethod {
	method, _ := metadata.ParseToneMappingMethod(c.ToneMapping.Method)
	return method
}

// Choreographer returns the pipeline construction parameters.
func (c *Config) Choreographer() systems.ChoreographerConfig {
	return systems.ChoreographerConfig{
		Shadows:         c.Pipeline.Shadows,
		GammaCorrection: c.Pipeline.GammaCorrection,
		Bloom:           c.Pipeline.Bloom,
		RenderToTexture: c.Pipeline.RenderToTexture,
		BlurScaling:     c.Pipeline.BlurScaling,
		BlurIterations:  c.Pipeline.BlurIterations,
		MaxShadowLights: c.Pipeline.MaxShadowLights,
		DebugShadowMaps: c.Pipeline.DebugShadowMaps,
		ToneMapping:     c.ToneMappingMethod(),
	}
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
