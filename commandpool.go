package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
)

type CommandPool struct {
	Device        *Device
	QueueFamily   *QueueFamily
	VKCommandPool vk.CommandPool
}

// Destroy destroys the pool and with it every buffer allocated from it.
func (c *CommandPool) Destroy() {
	c.Device.Driver.DestroyCommandPool(c.VKCommandPool)
}

func (c *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	var commandBufferAllocateInfo = vk.CommandBufferAllocateInfo{}
	commandBufferAllocateInfo.SType = vk.StructureTypeCommandBufferAllocateInfo
	commandBufferAllocateInfo.CommandPool = c.VKCommandPool
	commandBufferAllocateInfo.Level = vk.CommandBufferLevelPrimary
	commandBufferAllocateInfo.CommandBufferCount = 1

	cb, res := c.Device.Driver.AllocateCommandBuffer(&commandBufferAllocateInfo)
	if err := CheckAlloc(res, "vkAllocateCommandBuffers"); err != nil {
		return nil, err
	}
	return &CommandBuffer{Device: c.Device, VKCommandBuffer: cb}, nil
}

// CreateCommandPool creates a pool whose buffers can be reset one by one.
func (d *Device) CreateCommandPool(q *QueueFamily) (*CommandPool, error) {
	var commandPoolCreateInfo = vk.CommandPoolCreateInfo{}
	commandPoolCreateInfo.SType = vk.StructureTypeCommandPoolCreateInfo
	commandPoolCreateInfo.Flags = vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit)
	commandPoolCreateInfo.QueueFamilyIndex = uint32(q.Index)

	commandPool, res := d.Driver.CreateCommandPool(&commandPoolCreateInfo)
	if err := Check(res, "vkCreateCommandPool"); err != nil {
		return nil, err
	}
	return &CommandPool{Device: d, QueueFamily: q, VKCommandPool: commandPool}, nil
}
