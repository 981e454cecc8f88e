// Package vkdriver is the native backend of vkboot: it opens the system
// Vulkan library, resolves the three function waves and implements the wave
// interfaces on top of github.com/vulkan-go/vulkan. Windows come from GLFW.
package vkdriver

import (
	"unsafe"

	"github.com/celer/vkboot"
	"github.com/cockroachdb/errors"
	"github.com/ebitengine/purego"
	vk "github.com/vulkan-go/vulkan"
)

// Library is the opened driver library and its single bootstrap function.
type Library struct {
	Path string
	// GetInstanceProcAddr is the address of vkGetInstanceProcAddr.
	GetInstanceProcAddr uintptr

	handle              uintptr
	getInstanceProcAddr func(instance uintptr, name string) uintptr
}

// Open locates the driver library and resolves vkGetInstanceProcAddr. A
// missing library or symbol is an environment error.
func Open() (*Library, error) {
	lib, err := openLibrary()
	if err != nil {
		return nil, errors.WithHint(errors.Mark(err, vkboot.ErrEnvironment), "install a Vulkan driver or set VULKAN_SDK")
	}
	purego.RegisterFunc(&lib.getInstanceProcAddr, lib.GetInstanceProcAddr)
	vkboot.Logger().Debug("driver library opened", "path", lib.Path)
	return lib, nil
}

// InstanceProcs resolves instance-level functions of instance, or global
// functions when instance is nil.
func (l *Library) InstanceProcs(instance vk.Instance) vkboot.ProcAddrFunc {
	return func(name string) uintptr {
		return l.getInstanceProcAddr(uintptr(unsafe.Pointer(instance)), name)
	}
}

// DeviceProcs resolves device-level functions of device through the
// vkGetDeviceProcAddr found in the instance wave.
func DeviceProcs(instanceProcs *vkboot.ProcTable, device vk.Device) (vkboot.ProcAddrFunc, error) {
	addr := instanceProcs.Addr("vkGetDeviceProcAddr")
	if addr == 0 {
		return nil, errors.Mark(errors.New("vkGetDeviceProcAddr not loaded"), vkboot.ErrPrecondition)
	}
	var getDeviceProcAddr func(device uintptr, name string) uintptr
	purego.RegisterFunc(&getDeviceProcAddr, addr)
	return func(name string) uintptr {
		return getDeviceProcAddr(uintptr(unsafe.Pointer(device)), name)
	}, nil
}

// Close unloads the library. Nothing loaded from it may be used afterwards.
func (l *Library) Close() error {
	return closeLibrary(l.handle)
}
