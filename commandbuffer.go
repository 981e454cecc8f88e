package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffers describe a sequence of commands that will be executed
// upon being sent to a device queue. Only the commands of the clear and
// present cycle are wrapped.
type CommandBuffer struct {
	Device          *Device
	VKCommandBuffer vk.CommandBuffer
}

// Reset this command buffer
func (c *CommandBuffer) Reset() error {
	return Check(c.Device.Driver.ResetCommandBuffer(c.VKCommandBuffer), "vkResetCommandBuffer")
}

// VK is a utility function for accessing the native vulkan command buffer
func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// BeginOneTime begins capturing work for this command buffer, with the stipulation that it will only be submitted once before being reset
func (c *CommandBuffer) BeginOneTime() error {
	var beginInfo = vk.CommandBufferBeginInfo{}
	beginInfo.SType = vk.StructureTypeCommandBufferBeginInfo
	beginInfo.Flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	return Check(c.Device.Driver.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo), "vkBeginCommandBuffer")
}

// End describing work for this command buffer
func (c *CommandBuffer) End() error {
	return Check(c.Device.Driver.EndCommandBuffer(c.VKCommandBuffer), "vkEndCommandBuffer")
}
