package renderer

import (
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

// Driver is the small slice of the GPU abstraction the pipeline talks to.
// Failures creating resources are configuration errors and are returned as
// is; the pipeline never retries them.
type Driver interface {
	// NewRenderTarget creates a target of the given kind. layers is the number
	// of array layers (or discrete textures for RenderTargetDepth).
	NewRenderTarget(kind metadata.RenderTargetKind, attachmentCount, layers int) (RenderTarget, error)
	// NewImagePostProcess compiles a full-screen image program.
	NewImagePostProcess(shader *metadata.ImageShader) (ImagePostProcess, error)
	// Display returns the surface presented to the user.
	Display() RenderTarget
	// UnbindShader resets the bound program so no state leaks into the next pass.
	UnbindShader()
	IsGammaCorrectionEnabled() bool
	IsBloomEnabled() bool
}

/**
 * @brief Represents a render target, which is used for rendering to a texture
 * or set of textures, or to the display.
 */
type RenderTarget interface {
	Name() string
	Kind() metadata.RenderTargetKind
	AttachmentCount() int
	LayerCount() int
	IsMultisampled() bool
	Viewport() metadata.Viewport
	SetViewport(viewport metadata.Viewport)
	// Bind makes the target the destination of subsequent draw calls.
	Bind() error
	Clear() error
	// DiscardTransientBuffers hints that the current contents need not be
	// preserved once the target is unbound.
	DiscardTransientBuffers()
	Texture(attachment int) *metadata.Texture
	AttachTexture(texture *metadata.Texture, attachment int) error
	// SetTextureImageIndex selects the array layer subsequent draws write to.
	SetTextureImageIndex(layer, attachment int) error
	// BlitColor copies attachment 0 into dst, optionally flipping vertically.
	BlitColor(dst RenderTarget, flipY bool) error
	Destroy()
}

// ImagePostProcess draws a full-screen quad with a compiled image program.
type ImagePostProcess interface {
	Shader() *metadata.ImageShader
	SetUniform(name string, value float32)
	// Blit reads attachment of source (plus extra textures bound after it)
	// and writes into destination.
	Blit(source RenderTarget, attachment int, destination RenderTarget, extra []*metadata.Texture, driver Driver) error
	Destroy()
}
