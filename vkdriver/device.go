package vkdriver

import (
	"time"
	"unsafe"

	"github.com/celer/vkboot"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceDriver is the third function wave, bound to one logical device.
type DeviceDriver struct {
	device vk.Device
	Procs  *vkboot.ProcTable
}

var _ vkboot.DeviceDriver = (*DeviceDriver)(nil)

func (d *DeviceDriver) Device() vk.Device {
	return d.device
}

func (d *DeviceDriver) DestroyDevice() {
	vk.DestroyDevice(d.device, nil)
}

func (d *DeviceDriver) WaitIdle() vk.Result {
	return vk.DeviceWaitIdle(d.device)
}

func (d *DeviceDriver) Queue(family, index uint32) vk.Queue {
	var q vk.Queue
	vk.GetDeviceQueue(d.device, family, index, &q)
	return q
}

func (d *DeviceDriver) CreateSwapchain(info *vk.SwapchainCreateInfo) (vk.Swapchain, vk.Result) {
	var sc vk.Swapchain
	res := vk.CreateSwapchain(d.device, info, nil, &sc)
	return sc, res
}

func (d *DeviceDriver) DestroySwapchain(swapchain vk.Swapchain) {
	vk.DestroySwapchain(d.device, swapchain, nil)
}

func (d *DeviceDriver) SwapchainImages(swapchain vk.Swapchain) ([]vk.Image, vk.Result) {
	var count uint32
	if res := vk.GetSwapchainImages(d.device, swapchain, &count, nil); res != vk.Success {
		return nil, res
	}
	images := make([]vk.Image, count)
	res := vk.GetSwapchainImages(d.device, swapchain, &count, images)
	return images[:count], res
}

func (d *DeviceDriver) CreateImageView(info *vk.ImageViewCreateInfo) (vk.ImageView, vk.Result) {
	var view vk.ImageView
	res := vk.CreateImageView(d.device, info, nil, &view)
	return view, res
}

func (d *DeviceDriver) DestroyImageView(view vk.ImageView) {
	vk.DestroyImageView(d.device, view, nil)
}

func (d *DeviceDriver) CreateCommandPool(info *vk.CommandPoolCreateInfo) (vk.CommandPool, vk.Result) {
	var pool vk.CommandPool
	res := vk.CreateCommandPool(d.device, info, nil, &pool)
	return pool, res
}

func (d *DeviceDriver) DestroyCommandPool(pool vk.CommandPool) {
	vk.DestroyCommandPool(d.device, pool, nil)
}

func (d *DeviceDriver) AllocateCommandBuffer(info *vk.CommandBufferAllocateInfo) (vk.CommandBuffer, vk.Result) {
	buffers := make([]vk.CommandBuffer, 1)
	res := vk.AllocateCommandBuffers(d.device, info, buffers)
	return buffers[0], res
}

func (d *DeviceDriver) ResetCommandBuffer(cb vk.CommandBuffer) vk.Result {
	return vk.ResetCommandBuffer(cb, 0)
}

func (d *DeviceDriver) BeginCommandBuffer(cb vk.CommandBuffer, info *vk.CommandBufferBeginInfo) vk.Result {
	return vk.BeginCommandBuffer(cb, info)
}

func (d *DeviceDriver) EndCommandBuffer(cb vk.CommandBuffer) vk.Result {
	return vk.EndCommandBuffer(cb)
}

func (d *DeviceDriver) CmdImageBarrier(cb vk.CommandBuffer, src, dst vk.PipelineStageFlags, barrier *vk.ImageMemoryBarrier) {
	vk.CmdPipelineBarrier(cb, src, dst, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{*barrier})
}

func (d *DeviceDriver) CmdClearColorImage(cb vk.CommandBuffer, image vk.Image, layout vk.ImageLayout, color [4]float32, subresource vk.ImageSubresourceRange) {
	// VkClearColorValue is a 16 byte union; the float32 member is used.
	value := (*vk.ClearColorValue)(unsafe.Pointer(&color))
	vk.CmdClearColorImage(cb, image, layout, value, 1, []vk.ImageSubresourceRange{subresource})
}

func (d *DeviceDriver) CreateSemaphore() (vk.Semaphore, vk.Result) {
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var s vk.Semaphore
	res := vk.CreateSemaphore(d.device, &info, nil, &s)
	return s, res
}

func (d *DeviceDriver) DestroySemaphore(s vk.Semaphore) {
	vk.DestroySemaphore(d.device, s, nil)
}

func (d *DeviceDriver) CreateFence(signaled bool) (vk.Fence, vk.Result) {
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var f vk.Fence
	res := vk.CreateFence(d.device, &info, nil, &f)
	return f, res
}

func (d *DeviceDriver) DestroyFence(f vk.Fence) {
	vk.DestroyFence(d.device, f, nil)
}

func (d *DeviceDriver) WaitForFence(f vk.Fence, timeout time.Duration) vk.Result {
	return vk.WaitForFences(d.device, 1, []vk.Fence{f}, vk.True, uint64(timeout.Nanoseconds()))
}

func (d *DeviceDriver) ResetFence(f vk.Fence) vk.Result {
	return vk.ResetFences(d.device, 1, []vk.Fence{f})
}

func (d *DeviceDriver) AcquireNextImage(swapchain vk.Swapchain, timeout time.Duration, semaphore vk.Semaphore) (uint32, vk.Result) {
	var idx uint32
	res := vk.AcquireNextImage(d.device, swapchain, uint64(timeout.Nanoseconds()), semaphore, vk.NullFence, &idx)
	return idx, res
}

func (d *DeviceDriver) QueueSubmit(queue vk.Queue, info *vk.SubmitInfo, fence vk.Fence) vk.Result {
	return vk.QueueSubmit(queue, 1, []vk.SubmitInfo{*info}, fence)
}

func (d *DeviceDriver) QueuePresent(queue vk.Queue, info *vk.PresentInfo) vk.Result {
	return vk.QueuePresent(queue, info)
}
