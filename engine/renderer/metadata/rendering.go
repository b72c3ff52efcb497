package metadata

import (
	"github.com/spaghettifunk/anima-choreographer/engine/math"
)

// MaxLights bounds the number of shadow map slots a pipeline can allocate.
const MaxLights = 8

// NoShadowMapIndex is written to lights that did not receive a shadow map slot.
const NoShadowMapIndex = -1

type EyeType int

const (
	EyeMonocular EyeType = iota
	EyeLeft
	EyeRight
)

func (e EyeType) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return "monocular"
	}
}

// Eye identifies the viewpoint being rendered. FirstInFrame is set by the
// frame loop on the first eye it renders each frame; view independent work
// (shadow maps) runs only then. The zero value is not a first eye.
type Eye struct {
	Type         EyeType
	FirstInFrame bool
}

func MonocularEye() Eye {
	return Eye{Type: EyeMonocular, FirstInFrame: true}
}

// StereoEyes returns the eyes of a stereo frame in rendering order.
func StereoEyes() []Eye {
	return []Eye{
		{Type: EyeLeft, FirstInFrame: true},
		{Type: EyeRight, FirstInFrame: false},
	}
}

/** @brief Named input/output slots a render pass can read or write. */
type RenderSlot int

const (
	SlotSingleOutput RenderSlot = iota
	SlotGaussianInput
	SlotGaussianPingPongA
	SlotGaussianPingPongB
	SlotToneMappingHDRInput
	SlotToneMappingOutput

	// Number of slots; not a slot itself.
	RenderSlotCount
)

func (s RenderSlot) String() string {
	switch s {
	case SlotSingleOutput:
		return "single_output"
	case SlotGaussianInput:
		return "gaussian_input"
	case SlotGaussianPingPongA:
		return "gaussian_ping_pong_a"
	case SlotGaussianPingPongB:
		return "gaussian_ping_pong_b"
	case SlotToneMappingHDRInput:
		return "tone_mapping_hdr_input"
	case SlotToneMappingOutput:
		return "tone_mapping_output"
	default:
		return "invalid_slot"
	}
}

/** @brief The pass currently issuing draw calls, so scene code can pick its program. */
type PassKind int

const (
	PassNone PassKind = iota
	PassShadow
	PassBase
)

// RenderMetadata carries per-frame hints computed while preparing the scene.
type RenderMetadata struct {
	// Set when at least one visible material emits bloom.
	RequiresBloom bool
}

func (m *RenderMetadata) RequiresBloomPass() bool {
	return m != nil && m.RequiresBloom
}

/**
 * @brief Mutable per-frame rendering state shared between the pipeline, the
 * passes and the scene.
 */
type RenderContext struct {
	/** @brief The current frame number. */
	Frame uint64
	/** @brief The eye being rendered. */
	Eye EyeType
	/** @brief The current view matrix. */
	ViewMatrix math.Mat4
	/** @brief The current projection matrix. */
	ProjectionMatrix math.Mat4
	/** @brief The current camera position. */
	CameraPosition math.Vec3
	/** @brief The shadow map array of this frame. Nil when no light casts a shadow. */
	ShadowMap *Texture
	/** @brief Light view-projection matrices, indexed by shadow map slot. */
	ShadowViewProjection [MaxLights]math.Mat4
	/** @brief Depth bias applied when sampling shadow maps. */
	ShadowBias float32
	/** @brief The pass currently drawing. */
	Pass PassKind
	/** @brief Whether the base pass should write the bright-pass attachment. */
	BloomEnabled bool
}

func NewRenderContext() *RenderContext {
	return &RenderContext{
		ViewMatrix:       math.NewMat4Identity(),
		ProjectionMatrix: math.NewMat4Identity(),
		ShadowBias:       0.005,
	}
}
