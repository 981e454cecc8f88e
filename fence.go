package vkboot

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

// CreateFence creates a fence, optionally already signalled so the first
// wait on it returns at once.
func (d *Device) CreateFence(signaled bool) (*Fence, error) {
	fence, res := d.Driver.CreateFence(signaled)
	if err := Check(res, "vkCreateFence"); err != nil {
		return nil, err
	}
	return &Fence{Device: d, VKFence: fence}, nil
}

// Wait blocks until the fence is signalled or ts expires. An expired wait is
// ErrTimeout.
func (f *Fence) Wait(ts time.Duration) error {
	return Check(f.Device.Driver.WaitForFence(f.VKFence, ts), "vkWaitForFences")
}

func (f *Fence) Reset() error {
	return Check(f.Device.Driver.ResetFence(f.VKFence), "vkResetFences")
}

func (f *Fence) Destroy() {
	f.Device.Driver.DestroyFence(f.VKFence)
}
