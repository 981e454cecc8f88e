//go:build windows

package vkdriver

import (
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/vulkan-go/vulkan"
)

// presentationSupport asks vkGetPhysicalDeviceWin32PresentationSupportKHR,
// which win32 requires on top of surface support.
func presentationSupport(lib *Library, instance vk.Instance, pd vk.PhysicalDevice, family uint32) bool {
	if lib == nil {
		return true
	}
	addr := lib.InstanceProcs(instance)("vkGetPhysicalDeviceWin32PresentationSupportKHR")
	if addr == 0 {
		return false
	}
	var query func(pd uintptr, family uint32) uint32
	purego.RegisterFunc(&query, addr)
	return query(uintptr(unsafe.Pointer(pd)), family) == uint32(vk.True)
}
