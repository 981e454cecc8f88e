package vkboot

import (
	"github.com/cockroachdb/errors"
)

// Wave identifies a function loading stage.
type Wave int

const (
	WaveLoader Wave = iota + 1
	WaveInstance
	WaveDevice
)

func (w Wave) String() string {
	switch w {
	case WaveLoader:
		return "loader"
	case WaveInstance:
		return "instance"
	case WaveDevice:
		return "device"
	}
	return "unknown"
}

// ProcAddrFunc resolves a function by name, returning 0 when it is missing.
type ProcAddrFunc func(name string) uintptr

// Functions resolved in each wave. Every name must resolve to a non-zero
// address for the wave to load. The table only proves the functions exist;
// calls go through the binding's own dispatch.
var (
	LoaderProcs = []string{
		"vkCreateInstance",
		"vkEnumerateInstanceExtensionProperties",
		"vkEnumerateInstanceLayerProperties",
	}

	InstanceProcs = []string{
		"vkDestroyInstance",
		"vkEnumeratePhysicalDevices",
		"vkGetPhysicalDeviceProperties",
		"vkGetPhysicalDeviceMemoryProperties",
		"vkGetPhysicalDeviceFeatures",
		"vkGetPhysicalDeviceQueueFamilyProperties",
		"vkEnumerateDeviceExtensionProperties",
		"vkEnumerateDeviceLayerProperties",
		"vkGetPhysicalDeviceSurfaceSupportKHR",
		"vkGetPhysicalDeviceSurfaceFormatsKHR",
		"vkGetPhysicalDeviceSurfaceCapabilitiesKHR",
		"vkDestroySurfaceKHR",
		"vkCreateDevice",
		"vkGetDeviceProcAddr",
	}

	DeviceProcs = []string{
		"vkDestroyDevice",
		"vkDeviceWaitIdle",
		"vkGetDeviceQueue",
		"vkCreateSwapchainKHR",
		"vkDestroySwapchainKHR",
		"vkGetSwapchainImagesKHR",
		"vkCreateImageView",
		"vkDestroyImageView",
		"vkCreateCommandPool",
		"vkDestroyCommandPool",
		"vkAllocateCommandBuffers",
		"vkResetCommandBuffer",
		"vkBeginCommandBuffer",
		"vkEndCommandBuffer",
		"vkCmdPipelineBarrier",
		"vkCmdClearColorImage",
		"vkCreateSemaphore",
		"vkDestroySemaphore",
		"vkCreateFence",
		"vkDestroyFence",
		"vkWaitForFences",
		"vkResetFences",
		"vkAcquireNextImageKHR",
		"vkQueueSubmit",
		"vkQueuePresentKHR",
	}
)

// ProcTable holds the addresses resolved in one wave.
type ProcTable struct {
	Wave  Wave
	addrs map[string]uintptr
}

// LoadProcs resolves every name with resolve. A missing function is an
// environment error naming it.
func LoadProcs(wave Wave, resolve ProcAddrFunc, names []string) (*ProcTable, error) {
	if resolve == nil {
		return nil, precondition("%s functions loaded without a resolver", wave)
	}
	t := &ProcTable{Wave: wave, addrs: make(map[string]uintptr, len(names))}
	for _, name := range names {
		addr := resolve(name)
		if addr == 0 {
			return nil, errors.Mark(errors.Newf("%s function %s could not be resolved", wave, name), ErrEnvironment)
		}
		t.addrs[name] = addr
	}
	logger.Debug("functions loaded", "wave", wave.String(), "count", len(t.addrs))
	return t, nil
}

// Addr returns the address of a resolved function, or 0.
func (t *ProcTable) Addr(name string) uintptr {
	if t == nil {
		return 0
	}
	return t.addrs[name]
}

// Len returns the number of resolved functions.
func (t *ProcTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.addrs)
}
