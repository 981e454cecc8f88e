package vkboot

import (
	"fmt"

	"github.com/docker/go-units"
	vk "github.com/vulkan-go/vulkan"
)

type VKSurfaceFormats []vk.SurfaceFormat

func (v VKSurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) VKSurfaceFormats {
	ret := make(VKSurfaceFormats, 0)
	for _, s := range v {
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

// Has reports whether the exact format and colour space pair is listed.
func (v VKSurfaceFormats) Has(format vk.Format, space vk.ColorSpace) bool {
	return len(v.Filter(func(f vk.SurfaceFormat) bool {
		return f.Format == format && f.ColorSpace == space
	})) > 0
}

type PhysicalDevice struct {
	DeviceName       string
	Instance         *Instance
	VKPhysicalDevice vk.PhysicalDevice
	Properties       DeviceProperties
}

func (p *PhysicalDevice) driver() InstanceDriver {
	return p.Instance.Driver
}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (VKSurfaceFormats, error) {
	f, res := p.driver().SurfaceFormats(p.VKPhysicalDevice, surface)
	if err := CheckIncomplete(res, "vkGetPhysicalDeviceSurfaceFormatsKHR"); err != nil {
		return nil, err
	}
	return f, nil
}

// GetSurfaceCapabilities uses the core 1.0 query; no caller needs a chained
// capability structure.
func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	caps, res := p.driver().SurfaceCapabilities(p.VKPhysicalDevice, surface)
	if err := Check(res, "vkGetPhysicalDeviceSurfaceCapabilitiesKHR"); err != nil {
		return nil, err
	}
	return &caps, nil
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) QueueFamilies() QueueFamilySlice {
	props := p.driver().QueueFamilies(p.VKPhysicalDevice)
	ret := make(QueueFamilySlice, len(props))
	for i, q := range props {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: q}
	}
	return ret
}

// VKPhysicalDeviceFeatures returns the core 1.0 features the driver reports
// as available. They are enabled unchanged; no minimum set is enforced.
func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	return p.driver().Features(p.VKPhysicalDevice)
}

func (p *PhysicalDevice) MemoryHeaps() []MemoryHeap {
	return p.driver().MemoryHeaps(p.VKPhysicalDevice)
}

// SupportedExtensions returns the device extensions of the default list and
// of every device layer, without duplicates.
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	exts, res := p.driver().DeviceExtensions(p.VKPhysicalDevice, "")
	if err := CheckIncomplete(res, "vkEnumerateDeviceExtensionProperties"); err != nil {
		return nil, err
	}
	layers, res := p.driver().DeviceLayers(p.VKPhysicalDevice)
	if err := CheckIncomplete(res, "vkEnumerateDeviceLayerProperties"); err != nil {
		return nil, err
	}
	for _, layer := range layers {
		le, res := p.driver().DeviceExtensions(p.VKPhysicalDevice, layer)
		if err := CheckIncomplete(res, "vkEnumerateDeviceExtensionProperties"); err != nil {
			return nil, err
		}
		exts = mergeNames(exts, le...)
	}
	return mergeNames(exts), nil
}

func (p *PhysicalDevice) logReport() {
	logger.Info("physical device",
		"name", p.DeviceName,
		"type", DeviceTypeString(p.Properties.Type),
		"api", DecodeVersion(p.Properties.APIVersion).String(),
		"vendor", fmt.Sprintf("0x%04x", p.Properties.VendorID))
	for i, h := range p.MemoryHeaps() {
		logger.Debug("memory heap", "index", i, "size", units.BytesSize(float64(h.Size)), "local", h.DeviceLocal)
	}
}

// DeviceTypeString names a physical device type.
func DeviceTypeString(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated GPU"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete GPU"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual GPU"
	case vk.PhysicalDeviceTypeCpu:
		return "CPU"
	}
	return "other"
}
