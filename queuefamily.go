package vkboot

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make([]*QueueFamily, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsGraphics()
	})
}

// FirstGraphicsAndPresent returns the first family which can both draw and
// present to surface, or nil.
func (ql QueueFamilySlice) FirstGraphicsAndPresent(surface *Surface) (*QueueFamily, error) {
	for _, q := range ql.FilterGraphics() {
		ok, err := q.SupportsPresent(surface)
		if err != nil {
			return nil, err
		}
		if ok {
			return q, nil
		}
	}
	return nil, nil
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) IsCompute() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueComputeBit) == vk.QueueFlags(vk.QueueComputeBit)
}

func (q *QueueFamily) IsGraphics() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == vk.QueueFlags(vk.QueueGraphicsBit)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueTransferBit) == vk.QueueFlags(vk.QueueTransferBit)
}

// SupportsPresent checks surface support and, where the platform has one,
// the native presentation query.
func (q *QueueFamily) SupportsPresent(surface *Surface) (bool, error) {
	pd := q.PhysicalDevice
	ok, res := pd.driver().SurfaceSupport(pd.VKPhysicalDevice, uint32(q.Index), surface.VKSurface)
	if err := Check(res, "vkGetPhysicalDeviceSurfaceSupportKHR"); err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return surface.System.PresentationSupport(pd.Instance.VKInstance, pd.VKPhysicalDevice, uint32(q.Index)), nil
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Compute: %v Graphics: %v Transfer: %v }", q.Index, q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}
