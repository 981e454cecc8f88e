package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
)

// Image is a swapchain image. Its memory belongs to the swapchain.
type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
}

// ColorSubresourceRange covers the single mip level and array layer of a
// colour image.
func ColorSubresourceRange() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

// TransitionImageLayout records a layout transition of img. Only the
// transitions of the clear and present cycle are known.
func (cb *CommandBuffer) TransitionImageLayout(img *Image, oldLayout, newLayout vk.ImageLayout) error {
	var barrier = vk.ImageMemoryBarrier{}
	barrier.SType = vk.StructureTypeImageMemoryBarrier
	barrier.OldLayout = oldLayout
	barrier.NewLayout = newLayout
	barrier.SrcQueueFamilyIndex = vk.QueueFamilyIgnored
	barrier.DstQueueFamilyIndex = vk.QueueFamilyIgnored
	barrier.Image = img.VKImage
	barrier.SubresourceRange = ColorSubresourceRange()

	var sourceStage, destStage vk.PipelineStageFlags

	switch {
	case (oldLayout == vk.ImageLayoutUndefined || oldLayout == vk.ImageLayoutPresentSrc) && newLayout == vk.ImageLayoutGeneral:
		barrier.SrcAccessMask = 0
		barrier.DstAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)

		sourceStage = vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
		destStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)

	case oldLayout == vk.ImageLayoutGeneral && newLayout == vk.ImageLayoutPresentSrc:
		barrier.SrcAccessMask = vk.AccessFlags(vk.AccessTransferWriteBit)
		barrier.DstAccessMask = 0

		sourceStage = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
		destStage = vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)

	default:
		return precondition("unsupported image layout transition %d -> %d", oldLayout, newLayout)
	}

	cb.Device.Driver.CmdImageBarrier(cb.VK(), sourceStage, destStage, &barrier)
	return nil
}

// CmdClearColorImage clears the whole of img, which must be in the general
// layout, to color.
func (cb *CommandBuffer) CmdClearColorImage(img *Image, color [4]float32) {
	cb.Device.Driver.CmdClearColorImage(cb.VK(), img.VKImage, vk.ImageLayoutGeneral, color, ColorSubresourceRange())
}
