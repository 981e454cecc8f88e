package vkboot

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
	Driver         DeviceDriver
	// Queue is the single graphics and present queue.
	Queue      *Queue
	Extensions []string
}

func (d *Device) Destroy() {
	d.Driver.DestroyDevice()
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

func (d *Device) WaitIdle() error {
	return Check(d.Driver.WaitIdle(), "vkDeviceWaitIdle")
}

func (d *Device) GetQueue(qf *QueueFamily) *Queue {
	return &Queue{
		Device:      d,
		QueueFamily: qf,
		VKQueue:     d.Driver.Queue(uint32(qf.Index), 0),
	}
}

// SelectPhysicalDevice returns the first device, in enumeration order, that
// offers the exact surface format and a queue family able to draw and
// present to surface.
func (i *Instance) SelectPhysicalDevice(surface *Surface, cfg DeviceConfig) (*PhysicalDevice, *QueueFamily, error) {
	pds, err := i.PhysicalDevices()
	if err != nil {
		return nil, nil, err
	}
	if len(pds) == 0 {
		return nil, nil, environment("no physical device found")
	}
	for _, pd := range pds {
		formats, err := pd.GetSurfaceFormats(surface.VKSurface)
		if err != nil {
			return nil, nil, err
		}
		if !formats.Has(cfg.Format, cfg.ColorSpace) {
			logger.Debug("device skipped: surface format unsupported", "device", pd.DeviceName)
			continue
		}
		qf, err := pd.QueueFamilies().FirstGraphicsAndPresent(surface)
		if err != nil {
			return nil, nil, err
		}
		if qf == nil {
			logger.Debug("device skipped: no graphics and present queue", "device", pd.DeviceName)
			continue
		}
		return pd, qf, nil
	}
	return nil, nil, environment("none of %d physical devices supports format %d, color space %d and a graphics and present queue",
		len(pds), cfg.Format, cfg.ColorSpace)
}

// CreateDevice selects a physical device for surface, creates the logical
// device with one queue and loads the device functions. Destruction is
// registered on ledger.
func (i *Instance) CreateDevice(surface *Surface, cfg DeviceConfig, ledger *Ledger) (*Device, error) {
	switch {
	case i == nil:
		return nil, precondition("device requires an instance: create the instance first")
	case surface == nil:
		return nil, precondition("device requires a surface: create the surface first")
	case ledger == nil:
		return nil, precondition("device requires a cleanup ledger")
	}

	pd, qf, err := i.SelectPhysicalDevice(surface, cfg)
	if err != nil {
		return nil, err
	}
	pd.logReport()

	exts, err := pd.SupportedExtensions()
	if err != nil {
		return nil, err
	}
	if err := RequireNames("device extension", exts, cfg.Extensions); err != nil {
		return nil, err
	}

	// TODO(features): enforce a minimum feature set once a consumer needs one.
	features := pd.VKPhysicalDeviceFeatures()
	extensions := safeStrings(cfg.Extensions)
	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(qf.Index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{features},
	}

	handle, res := i.Driver.CreateDevice(pd.VKPhysicalDevice, &deviceCreateInfo)
	if err := Check(res, "vkCreateDevice"); err != nil {
		return nil, err
	}
	drv, err := i.Driver.LoadDevice(handle)
	if err != nil {
		return nil, errors.Wrap(err, "load device functions")
	}

	device := &Device{
		PhysicalDevice: pd,
		VKDevice:       handle,
		Driver:         drv,
		Extensions:     cfg.Extensions,
	}
	if err := ledger.Add("device", func(interface{}) error {
		device.Destroy()
		return nil
	}, device); err != nil {
		drv.DestroyDevice()
		return nil, err
	}
	device.Queue = device.GetQueue(qf)
	logger.Info("device created", "device", pd.DeviceName, "queue_family", qf.Index)
	return device, nil
}
