package headless

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/vulkan"
)

/**
 * @brief A render target that only tracks state. Textures are allocated
 * lazily on SetViewport so their size always follows the viewport.
 */
type Target struct {
	driver      *Driver
	name        string
	kind        metadata.RenderTargetKind
	desc        vulkan.TargetDescription
	attachments []*metadata.Texture
	layers      int
	layer       int
	multisample bool
	viewport    metadata.Viewport
	storeOp     vk.AttachmentStoreOp
	destroyed   bool
}

func newTarget(d *Driver, kind metadata.RenderTargetKind, attachmentCount, layers int) (*Target, error) {
	desc, err := vulkan.DescribeTarget(kind, attachmentCount, layers)
	if err != nil {
		return nil, err
	}
	d.nextTargetID++
	return &Target{
		driver:      d,
		name:        fmt.Sprintf("%s#%d", kind, d.nextTargetID),
		kind:        kind,
		desc:        desc,
		attachments: make([]*metadata.Texture, attachmentCount),
		layers:      layers,
		multisample: desc.IsMultisampled(),
		storeOp:     vulkan.StoreOp(false),
	}, nil
}

func (t *Target) Name() string                    { return t.name }
func (t *Target) Kind() metadata.RenderTargetKind { return t.kind }
func (t *Target) AttachmentCount() int            { return len(t.attachments) }
func (t *Target) LayerCount() int                 { return t.layers }
func (t *Target) IsMultisampled() bool            { return t.multisample }
func (t *Target) Viewport() metadata.Viewport     { return t.viewport }

// Layer returns the array layer selected by the last SetTextureImageIndex.
func (t *Target) Layer() int { return t.layer }

// Discarded reports whether the contents were discarded since the last bind.
func (t *Target) Discarded() bool { return t.storeOp == vk.AttachmentStoreOpDontCare }

func (t *Target) Destroyed() bool { return t.destroyed }

// FormatName is the Vulkan format the target images would be created with.
func (t *Target) FormatName() string {
	if t.kind == metadata.RenderTargetDisplay {
		return vulkan.FormatString(vk.FormatB8g8r8a8Unorm)
	}
	return vulkan.FormatString(t.desc.Format)
}

func (t *Target) SetViewport(viewport metadata.Viewport) {
	t.driver.record(Command{Op: OpSetViewport, Target: t.name, Viewport: viewport})
	resized := viewport.Width != t.viewport.Width || viewport.Height != t.viewport.Height
	t.viewport = viewport
	if t.kind == metadata.RenderTargetDisplay || viewport.IsEmpty() {
		return
	}
	for i, tex := range t.attachments {
		if tex == nil || resized {
			t.attachments[i] = t.driver.newTexture(t.kind, viewport, t.layers)
		}
	}
}

func (t *Target) Bind() error {
	if t.destroyed {
		return fmt.Errorf("bind %s: %w", t.name, core.ErrTargetDestroyed)
	}
	t.driver.bound = t
	t.storeOp = vulkan.StoreOp(false)
	t.driver.record(Command{Op: OpBind, Target: t.name, Layer: t.layer})
	return nil
}

func (t *Target) Clear() error {
	if t.destroyed {
		return fmt.Errorf("clear %s: %w", t.name, core.ErrTargetDestroyed)
	}
	t.driver.record(Command{Op: OpClear, Target: t.name})
	return nil
}

func (t *Target) DiscardTransientBuffers() {
	t.storeOp = vulkan.StoreOp(true)
	t.driver.record(Command{Op: OpDiscard, Target: t.name})
}

func (t *Target) Texture(attachment int) *metadata.Texture {
	if attachment < 0 || attachment >= len(t.attachments) {
		return nil
	}
	return t.attachments[attachment]
}

func (t *Target) AttachTexture(texture *metadata.Texture, attachment int) error {
	if attachment < 0 || attachment >= len(t.attachments) {
		return fmt.Errorf("attach to %s slot %d: %w", t.name, attachment, core.ErrUnsupportedTarget)
	}
	if texture == nil {
		return fmt.Errorf("attach nil texture to %s", t.name)
	}
	if texture.Kind.IsDepth() != t.kind.IsDepth() {
		return fmt.Errorf("attach %s texture to %s: %w", texture.Kind, t.name, core.ErrUnsupportedTarget)
	}
	t.attachments[attachment] = texture
	t.driver.record(Command{Op: OpAttachTexture, Target: t.name, Attachment: attachment, Inputs: []string{texture.Name}})
	return nil
}

func (t *Target) SetTextureImageIndex(layer, attachment int) error {
	if layer < 0 || layer >= t.layers {
		return fmt.Errorf("%s layer %d out of range [0,%d): %w", t.name, layer, t.layers, core.ErrUnsupportedTarget)
	}
	if attachment < 0 || attachment >= len(t.attachments) {
		return fmt.Errorf("%s attachment %d: %w", t.name, attachment, core.ErrUnsupportedTarget)
	}
	t.layer = layer
	t.driver.record(Command{Op: OpSetLayer, Target: t.name, Layer: layer, Attachment: attachment})
	return nil
}

func (t *Target) BlitColor(dst renderer.RenderTarget, flipY bool) error {
	if t.destroyed {
		return fmt.Errorf("blit from %s: %w", t.name, core.ErrTargetDestroyed)
	}
	if dst == nil {
		return fmt.Errorf("blit from %s to nil target", t.name)
	}
	if dst.IsMultisampled() {
		// multisampled destinations need a resolve, which a plain copy cannot do
		return fmt.Errorf("blit %s into multisampled %s: %w", t.name, dst.Name(), core.ErrUnsupportedTarget)
	}
	if t.kind.IsDepth() || dst.Kind().IsDepth() {
		return fmt.Errorf("colour blit between %s and %s: %w", t.kind, dst.Kind(), core.ErrUnsupportedTarget)
	}
	if d, ok := dst.(*Target); ok {
		if d.destroyed {
			return fmt.Errorf("blit into %s: %w", d.name, core.ErrTargetDestroyed)
		}
		d.storeOp = vulkan.StoreOp(false)
	}
	t.driver.record(Command{Op: OpBlitColor, Target: t.name, Dest: dst.Name(), FlipY: flipY})
	return nil
}

func (t *Target) Destroy() {
	if t.destroyed || t.kind == metadata.RenderTargetDisplay {
		return
	}
	t.destroyed = true
	if t.driver.bound == t {
		t.driver.bound = nil
	}
	t.driver.record(Command{Op: OpDestroyTarget, Target: t.name})
}

var _ renderer.RenderTarget = (*Target)(nil)
