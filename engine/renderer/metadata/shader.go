package metadata

import (
	"fmt"
	"strings"
)

/**
 * @brief Describes a full-screen image program: the samplers it reads and the
 * body of its fragment stage. The driver compiles it into an image post process.
 */
type ImageShader struct {
	/** @brief The Name of the program, used for caching and debugging. */
	Name string
	/** @brief Sampler uniform names in binding order. */
	Samplers []string
	/** @brief Fragment code lines. */
	Code []string
}

func (s *ImageShader) Source() string {
	return strings.Join(s.Code, "\n")
}

type ToneMappingMethod int

const (
	// Gamma correction only.
	ToneMappingDisabled ToneMappingMethod = iota
	ToneMappingReinhard
	ToneMappingHable
	ToneMappingExponential
)

func (m ToneMappingMethod) String() string {
	switch m {
	case ToneMappingDisabled:
		return "disabled"
	case ToneMappingReinhard:
		return "reinhard"
	case ToneMappingHable:
		return "hable"
	case ToneMappingExponential:
		return "exponential"
	default:
		return fmt.Sprintf("tone_mapping(%d)", int(m))
	}
}

func ParseToneMappingMethod(name string) (ToneMappingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "disabled", "none":
		return ToneMappingDisabled, nil
	case "", "reinhard":
		return ToneMappingReinhard, nil
	case "hable", "filmic":
		return ToneMappingHable, nil
	case "exponential":
		return ToneMappingExponential, nil
	default:
		return ToneMappingReinhard, fmt.Errorf("unknown tone mapping method '%s'", name)
	}
}

/** @brief Built-in full-screen effects available to the post process chain. */
type PostProcessEffect int

const (
	EffectNone PostProcessEffect = iota
	EffectGrayscale
	EffectSepia
	EffectSinCity
	EffectBarrelDistortion
	EffectPincushionDistortion
	EffectThermalVision
	EffectCrossHatch
	EffectPixelated
	EffectToonify
	EffectEmboss
)

var effectNames = map[PostProcessEffect]string{
	EffectGrayscale:            "grayscale",
	EffectSepia:                "sepia",
	EffectSinCity:              "sincity",
	EffectBarrelDistortion:     "barrel_distortion",
	EffectPincushionDistortion: "pincushion_distortion",
	EffectThermalVision:        "thermal_vision",
	EffectCrossHatch:           "cross_hatch",
	EffectPixelated:            "pixelated",
	EffectToonify:              "toonify",
	EffectEmboss:               "emboss",
}

func (e PostProcessEffect) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return "none"
}

// ParsePostProcessEffect returns EffectNone and false for unknown names.
func ParsePostProcessEffect(name string) (PostProcessEffect, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for effect, n := range effectNames {
		if n == name {
			return effect, true
		}
	}
	return EffectNone, false
}
