package vkboot

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// The driver is reached through three capability sets, one per function
// loading wave. Each set can only be obtained from a handle produced with the
// previous one, so a function of a later wave cannot be called early.
//
// Methods return the raw native status; callers route it through Check or
// one of its variants.

// Loader is the first wave: the calls available before an instance exists.
type Loader interface {
	InstanceExtensions() ([]string, vk.Result)
	InstanceLayers() ([]string, vk.Result)
	CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, vk.Result)
	// LoadInstance resolves the instance-level functions for instance.
	LoadInstance(instance vk.Instance) (InstanceDriver, error)
}

// DeviceProperties describes a physical device.
type DeviceProperties struct {
	Name          string
	Type          vk.PhysicalDeviceType
	APIVersion    uint32
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
}

// MemoryHeap describes one memory heap of a physical device.
type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

// DebugReportFunc receives validation layer messages.
type DebugReportFunc func(flags vk.DebugReportFlags, layerPrefix, message string)

// InstanceDriver is the second wave, bound to one instance.
type InstanceDriver interface {
	Instance() vk.Instance
	DestroyInstance()

	InstallDebugReport(fn DebugReportFunc) (vk.DebugReportCallback, vk.Result)
	DestroyDebugReport(cb vk.DebugReportCallback)

	PhysicalDevices() ([]vk.PhysicalDevice, vk.Result)
	Properties(pd vk.PhysicalDevice) DeviceProperties
	MemoryHeaps(pd vk.PhysicalDevice) []MemoryHeap
	QueueFamilies(pd vk.PhysicalDevice) []vk.QueueFamilyProperties
	Features(pd vk.PhysicalDevice) vk.PhysicalDeviceFeatures
	DeviceExtensions(pd vk.PhysicalDevice, layer string) ([]string, vk.Result)
	DeviceLayers(pd vk.PhysicalDevice) ([]string, vk.Result)

	SurfaceSupport(pd vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, vk.Result)
	SurfaceFormats(pd vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, vk.Result)
	SurfaceCapabilities(pd vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, vk.Result)
	DestroySurface(surface vk.Surface)

	CreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, vk.Result)
	// LoadDevice resolves the device-level functions for device.
	LoadDevice(device vk.Device) (DeviceDriver, error)
}

// DeviceDriver is the third wave, bound to one logical device.
type DeviceDriver interface {
	Device() vk.Device
	DestroyDevice()
	WaitIdle() vk.Result
	Queue(family, index uint32) vk.Queue

	CreateSwapchain(info *vk.SwapchainCreateInfo) (vk.Swapchain, vk.Result)
	DestroySwapchain(swapchain vk.Swapchain)
	SwapchainImages(swapchain vk.Swapchain) ([]vk.Image, vk.Result)
	CreateImageView(info *vk.ImageViewCreateInfo) (vk.ImageView, vk.Result)
	DestroyImageView(view vk.ImageView)

	CreateCommandPool(info *vk.CommandPoolCreateInfo) (vk.CommandPool, vk.Result)
	DestroyCommandPool(pool vk.CommandPool)
	AllocateCommandBuffer(info *vk.CommandBufferAllocateInfo) (vk.CommandBuffer, vk.Result)
	ResetCommandBuffer(cb vk.CommandBuffer) vk.Result
	BeginCommandBuffer(cb vk.CommandBuffer, info *vk.CommandBufferBeginInfo) vk.Result
	EndCommandBuffer(cb vk.CommandBuffer) vk.Result
	CmdImageBarrier(cb vk.CommandBuffer, src, dst vk.PipelineStageFlags, barrier *vk.ImageMemoryBarrier)
	CmdClearColorImage(cb vk.CommandBuffer, image vk.Image, layout vk.ImageLayout, color [4]float32, subresource vk.ImageSubresourceRange)

	CreateSemaphore() (vk.Semaphore, vk.Result)
	DestroySemaphore(s vk.Semaphore)
	CreateFence(signaled bool) (vk.Fence, vk.Result)
	DestroyFence(f vk.Fence)
	WaitForFence(f vk.Fence, timeout time.Duration) vk.Result
	ResetFence(f vk.Fence) vk.Result

	AcquireNextImage(swapchain vk.Swapchain, timeout time.Duration, semaphore vk.Semaphore) (uint32, vk.Result)
	QueueSubmit(queue vk.Queue, info *vk.SubmitInfo, fence vk.Fence) vk.Result
	QueuePresent(queue vk.Queue, info *vk.PresentInfo) vk.Result
}

// Window is a native window a surface can be bound to.
type Window interface {
	// FramebufferSize is the client area in pixels, which may differ from the
	// requested size.
	FramebufferSize() (width, height int)
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	Show()
	Destroy()
}

// WindowProc receives the events of one window. It runs on the thread that
// pumps events.
type WindowProc func(w Window, ev WindowEvent)

// WindowSystem creates windows and pumps their events.
type WindowSystem interface {
	RequiredInstanceExtensions() ([]string, error)
	// CreateWindow creates a hidden window routing its events to proc.
	CreateWindow(title string, width, height int, proc WindowProc) (Window, error)
	// PresentationSupport reports native presentation support for a queue
	// family on platforms that require the query; other platforms return true.
	PresentationSupport(instance vk.Instance, pd vk.PhysicalDevice, family uint32) bool
	PollEvents()
	WaitEvents()
}
