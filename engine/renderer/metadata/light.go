package metadata

import (
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/math"
)

type LightType int

const (
	LightTypeDirectional LightType = iota
	LightTypeSpot
	LightTypeOmni
	LightTypeAmbient
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypeSpot:
		return "spot"
	case LightTypeOmni:
		return "omni"
	default:
		return "ambient"
	}
}

// CanCastShadow reports whether the shadow pass knows how to project this light type.
func (t LightType) CanCastShadow() bool {
	return t == LightTypeDirectional || t == LightTypeSpot
}

// DefaultShadowMapSize is used when a light asks for shadows without a resolution.
const DefaultShadowMapSize = 1024

/** @brief The configuration used to create a light in the light system. */
type LightConfig struct {
	Type           LightType
	Colour         math.Vec3
	Intensity      float32
	Position       math.Vec3
	Direction      math.Vec3
	SpotOuterAngle float32
	CastsShadow    bool
	ShadowMapSize  int
	// Near/far clip of the light space projection.
	ShadowNearZ float32
	ShadowFarZ  float32
	// Half extent of the orthographic projection used by directional lights.
	ShadowOrthographicSize float32
}

/**
 * @brief A light in the scene. Lights are owned by the light system; the
 * pipeline only reads the shadow settings and writes the shadow map index.
 */
type Light struct {
	handle core.Handle
	config LightConfig

	shadowMapIndex int
}

func NewLight(handle core.Handle, config LightConfig) *Light {
	if config.CastsShadow && config.ShadowMapSize <= 0 {
		config.ShadowMapSize = DefaultShadowMapSize
	}
	if config.ShadowNearZ <= 0 {
		config.ShadowNearZ = 0.1
	}
	if config.ShadowFarZ <= config.ShadowNearZ {
		config.ShadowFarZ = 20
	}
	if config.ShadowOrthographicSize <= 0 {
		config.ShadowOrthographicSize = 20
	}
	if config.Direction.LengthSquared() == 0 {
		config.Direction = math.NewVec3(0, -1, 0)
	}
	return &Light{
		handle:         handle,
		config:         config,
		shadowMapIndex: NoShadowMapIndex,
	}
}

func (l *Light) Handle() core.Handle {
	return l.handle
}

func (l *Light) Type() LightType {
	return l.config.Type
}

func (l *Light) Config() LightConfig {
	return l.config
}

// CastsShadow is true only for light types the shadow pass can project.
func (l *Light) CastsShadow() bool {
	return l.config.CastsShadow && l.config.Type.CanCastShadow()
}

func (l *Light) SetCastsShadow(casts bool) {
	l.config.CastsShadow = casts
	if casts && l.config.ShadowMapSize <= 0 {
		l.config.ShadowMapSize = DefaultShadowMapSize
	}
}

func (l *Light) ShadowMapSize() int {
	return l.config.ShadowMapSize
}

func (l *Light) SetShadowMapSize(size int) {
	l.config.ShadowMapSize = size
}

func (l *Light) ShadowMapIndex() int {
	return l.shadowMapIndex
}

func (l *Light) SetShadowMapIndex(index int) {
	l.shadowMapIndex = index
}

func (l *Light) Position() math.Vec3 {
	return l.config.Position
}

func (l *Light) SetPosition(position math.Vec3) {
	l.config.Position = position
}

func (l *Light) Direction() math.Vec3 {
	return l.config.Direction
}

func (l *Light) SetDirection(direction math.Vec3) {
	l.config.Direction = direction
}

func (l *Light) SpotOuterAngle() float32 {
	return l.config.SpotOuterAngle
}

func (l *Light) ShadowNearZ() float32 {
	return l.config.ShadowNearZ
}

func (l *Light) ShadowFarZ() float32 {
	return l.config.ShadowFarZ
}

func (l *Light) ShadowOrthographicSize() float32 {
	return l.config.ShadowOrthographicSize
}
