package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-choreographer/engine/core"
	"github.com/spaghettifunk/anima-choreographer/engine/renderer/metadata"
)

/**
 * @brief Max number of colour attachments of a single render target.
 * Matches the minimum maxColorAttachments guaranteed by the Vulkan spec.
 */
const VULKAN_MAX_COLOR_ATTACHMENTS = 4

/**
 * @brief Max number of array layers (or discrete depth textures) of a render target.
 */
const VULKAN_MAX_ARRAY_LAYERS = 256

// TargetDescription is the Vulkan view of a render target kind: what the
// image would be created with on a device.
type TargetDescription struct {
	Format   vk.Format
	Usage    vk.ImageUsageFlags
	Aspect   vk.ImageAspectFlags
	ViewType vk.ImageViewType
	Samples  vk.SampleCountFlagBits
	Layers   uint32
}

// DescribeTarget validates a render target request and returns how the
// images backing it are created. The display is owned by the swapchain and
// cannot be requested.
func DescribeTarget(kind metadata.RenderTargetKind, attachmentCount, layers int) (TargetDescription, error) {
	if attachmentCount < 1 || attachmentCount > VULKAN_MAX_COLOR_ATTACHMENTS {
		return TargetDescription{}, fmt.Errorf("%s target with %d attachments: %w", kind, attachmentCount, core.ErrUnsupportedTarget)
	}
	if layers < 1 || layers > VULKAN_MAX_ARRAY_LAYERS {
		return TargetDescription{}, fmt.Errorf("%s target with %d layers: %w", kind, layers, core.ErrUnsupportedTarget)
	}

	desc := TargetDescription{
		Samples:  vk.SampleCount1Bit,
		ViewType: vk.ImageViewType2d,
		Layers:   1,
	}
	switch kind {
	case metadata.RenderTargetColor:
		desc.Format = vk.FormatR8g8b8a8Unorm
		desc.Usage = vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageSampledBit | vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit)
		desc.Aspect = vk.ImageAspectFlags(vk.ImageAspectColorBit)
	case metadata.RenderTargetColorHDR16:
		desc.Format = vk.FormatR16g16b16a16Sfloat
		desc.Usage = vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageSampledBit | vk.ImageUsageTransferSrcBit)
		desc.Aspect = vk.ImageAspectFlags(vk.ImageAspectColorBit)
		// the HDR target is multisampled; it is resolved by the passes reading it
		desc.Samples = vk.SampleCount4Bit
	case metadata.RenderTargetDepth:
		// one discrete 2D texture per layer
		desc.Format = vk.FormatD32Sfloat
		desc.Usage = vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit | vk.ImageUsageSampledBit)
		desc.Aspect = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	case metadata.RenderTargetDepthArray:
		desc.Format = vk.FormatD32Sfloat
		desc.Usage = vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit | vk.ImageUsageSampledBit)
		desc.Aspect = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
		desc.ViewType = vk.ImageViewType2dArray
		desc.Layers = uint32(layers)
	default:
		return TargetDescription{}, fmt.Errorf("cannot create %s target: %w", kind, core.ErrUnsupportedTarget)
	}

	if kind.IsDepth() && attachmentCount != 1 {
		return TargetDescription{}, fmt.Errorf("%s target with %d attachments: %w", kind, attachmentCount, core.ErrUnsupportedTarget)
	}
	return desc, nil
}

// IsMultisampled reports whether images with this description need a resolve
// before being sampled.
func (d TargetDescription) IsMultisampled() bool {
	return d.Samples != vk.SampleCount1Bit
}

// StoreOp returns the store operation used when the target is unbound. A
// discarded target does not write its tiles back to memory.
func StoreOp(discard bool) vk.AttachmentStoreOp {
	if discard {
		return vk.AttachmentStoreOpDontCare
	}
	return vk.AttachmentStoreOpStore
}

func FormatString(format vk.Format) string {
	switch format {
	case vk.FormatR8g8b8a8Unorm:
		return "R8G8B8A8_UNORM"
	case vk.FormatB8g8r8a8Unorm:
		return "B8G8R8A8_UNORM"
	case vk.FormatR16g16b16a16Sfloat:
		return "R16G16B16A16_SFLOAT"
	case vk.FormatD32Sfloat:
		return "D32_SFLOAT"
	default:
		return fmt.Sprintf("VkFormat(%d)", int32(format))
	}
}
