package metadata

import "fmt"

/** @brief The kind of surface a render target is backed by. */
type RenderTargetKind int

const (
	/** @brief The driver owned display surface. Never created by the pipeline. */
	RenderTargetDisplay RenderTargetKind = iota
	/** @brief 8-bit per channel colour texture. */
	RenderTargetColor
	/** @brief 16-bit floating point colour texture, used for HDR rendering. */
	RenderTargetColorHDR16
	/** @brief A depth texture. With more than one layer, one discrete texture per layer. */
	RenderTargetDepth
	/** @brief A layered depth texture (texture array). */
	RenderTargetDepthArray
)

func (k RenderTargetKind) String() string {
	switch k {
	case RenderTargetDisplay:
		return "display"
	case RenderTargetColor:
		return "color"
	case RenderTargetColorHDR16:
		return "color_hdr16"
	case RenderTargetDepth:
		return "depth"
	case RenderTargetDepthArray:
		return "depth_array"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k RenderTargetKind) IsDepth() bool {
	return k == RenderTargetDepth || k == RenderTargetDepthArray
}

func (k RenderTargetKind) IsHDR() bool {
	return k == RenderTargetColorHDR16
}

/** @brief A rectangular region of a render target, in pixels. */
type Viewport struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

func NewViewport(x, y, width, height int32) Viewport {
	return Viewport{X: x, Y: y, Width: width, Height: height}
}

// Untranslated returns the same size anchored at the origin.
func (v Viewport) Untranslated() Viewport {
	return Viewport{Width: v.Width, Height: v.Height}
}

// Scaled returns the viewport with width and height multiplied by factor
// (truncated), keeping the origin.
func (v Viewport) Scaled(factor float32) Viewport {
	return Viewport{
		X:      v.X,
		Y:      v.Y,
		Width:  int32(float32(v.Width) * factor),
		Height: int32(float32(v.Height) * factor),
	}
}

func (v Viewport) IsEmpty() bool {
	return v.Width <= 0 || v.Height <= 0
}

func (v Viewport) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", v.X, v.Y, v.Width, v.Height)
}

/**
 * @brief Represents a texture bound to a render target attachment.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The kind of target this texture was created for. */
	Kind RenderTargetKind
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of array layers. */
	Layers uint32
	/** @brief Backend specific data. */
	InternalData interface{}
}
