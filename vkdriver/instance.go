package vkdriver

import (
	"unsafe"

	"github.com/celer/vkboot"
	vk "github.com/vulkan-go/vulkan"
)

// InstanceDriver is the second function wave, bound to one instance.
type InstanceDriver struct {
	instance vk.Instance
	Procs    *vkboot.ProcTable

	debugReport vkboot.DebugReportFunc
}

var _ vkboot.InstanceDriver = (*InstanceDriver)(nil)

func (d *InstanceDriver) Instance() vk.Instance {
	return d.instance
}

func (d *InstanceDriver) DestroyInstance() {
	vk.DestroyInstance(d.instance, nil)
}

func (d *InstanceDriver) InstallDebugReport(fn vkboot.DebugReportFunc) (vk.DebugReportCallback, vk.Result) {
	d.debugReport = fn
	info := &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit),
		PfnCallback: d.debugCallback,
	}
	var cb vk.DebugReportCallback
	res := vk.CreateDebugReportCallback(d.instance, info, nil, &cb)
	return cb, res
}

func (d *InstanceDriver) debugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint,
	messageCode int32, layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {
	if d.debugReport != nil {
		d.debugReport(flags, layerPrefix, message)
	}
	return vk.False
}

func (d *InstanceDriver) DestroyDebugReport(cb vk.DebugReportCallback) {
	vk.DestroyDebugReportCallback(d.instance, cb, nil)
}

func (d *InstanceDriver) PhysicalDevices() ([]vk.PhysicalDevice, vk.Result) {
	var count uint32
	if res := vk.EnumeratePhysicalDevices(d.instance, &count, nil); res != vk.Success {
		return nil, res
	}
	pds := make([]vk.PhysicalDevice, count)
	res := vk.EnumeratePhysicalDevices(d.instance, &count, pds)
	return pds[:count], res
}

func (d *InstanceDriver) Properties(pd vk.PhysicalDevice) vkboot.DeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()
	return vkboot.DeviceProperties{
		Name:          vk.ToString(props.DeviceName[:]),
		Type:          props.DeviceType,
		APIVersion:    props.ApiVersion,
		DriverVersion: props.DriverVersion,
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
	}
}

func (d *InstanceDriver) MemoryHeaps(pd vk.PhysicalDevice) []vkboot.MemoryHeap {
	var mp vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &mp)
	mp.Deref()
	heaps := make([]vkboot.MemoryHeap, 0, mp.MemoryHeapCount)
	var i uint32
	for i = 0; i < mp.MemoryHeapCount; i++ {
		h := mp.MemoryHeaps[i]
		h.Deref()
		heaps = append(heaps, vkboot.MemoryHeap{
			Size:        uint64(h.Size),
			DeviceLocal: vk.MemoryHeapFlagBits(h.Flags)&vk.MemoryHeapDeviceLocalBit != 0,
		})
	}
	return heaps
}

func (d *InstanceDriver) QueueFamilies(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	if count == 0 {
		return nil
	}
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)
	for i := range props {
		props[i].Deref()
	}
	return props[:count]
}

func (d *InstanceDriver) Features(pd vk.PhysicalDevice) vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(pd, &features)
	features.Deref()
	return features
}

func (d *InstanceDriver) DeviceExtensions(pd vk.PhysicalDevice, layer string) ([]string, vk.Result) {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(pd, layer, &count, nil); res != vk.Success {
		return nil, res
	}
	props := make([]vk.ExtensionProperties, count)
	res := vk.EnumerateDeviceExtensionProperties(pd, layer, &count, props)
	return extensionNames(props[:count]), res
}

func (d *InstanceDriver) DeviceLayers(pd vk.PhysicalDevice) ([]string, vk.Result) {
	var count uint32
	if res := vk.EnumerateDeviceLayerProperties(pd, &count, nil); res != vk.Success {
		return nil, res
	}
	props := make([]vk.LayerProperties, count)
	res := vk.EnumerateDeviceLayerProperties(pd, &count, props)
	return layerNames(props[:count]), res
}

func (d *InstanceDriver) SurfaceSupport(pd vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, vk.Result) {
	var supported vk.Bool32
	res := vk.GetPhysicalDeviceSurfaceSupport(pd, family, surface, &supported)
	return supported == vk.True, res
}

func (d *InstanceDriver) SurfaceFormats(pd vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, vk.Result) {
	var count uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &count, nil); res != vk.Success {
		return nil, res
	}
	formats := make([]vk.SurfaceFormat, count)
	res := vk.GetPhysicalDeviceSurfaceFormats(pd, surface, &count, formats)
	for i := range formats {
		formats[i].Deref()
	}
	return formats[:count], res
}

func (d *InstanceDriver) SurfaceCapabilities(pd vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, vk.Result) {
	var caps vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(pd, surface, &caps)
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, res
}

func (d *InstanceDriver) DestroySurface(surface vk.Surface) {
	vk.DestroySurface(d.instance, surface, nil)
}

func (d *InstanceDriver) CreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, vk.Result) {
	var device vk.Device
	res := vk.CreateDevice(pd, info, nil, &device)
	return device, res
}

// LoadDevice resolves the device wave of device.
func (d *InstanceDriver) LoadDevice(device vk.Device) (vkboot.DeviceDriver, error) {
	resolve, err := DeviceProcs(d.Procs, device)
	if err != nil {
		return nil, err
	}
	procs, err := vkboot.LoadProcs(vkboot.WaveDevice, resolve, vkboot.DeviceProcs)
	if err != nil {
		return nil, err
	}
	return &DeviceDriver{device: device, Procs: procs}, nil
}
