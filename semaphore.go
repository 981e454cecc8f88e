package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
)

type Semaphore struct {
	Device      *Device
	VKSemaphore vk.Semaphore
}

// CreateSemaphore creates a binary semaphore.
func (d *Device) CreateSemaphore() (*Semaphore, error) {
	sema, res := d.Driver.CreateSemaphore()
	if err := Check(res, "vkCreateSemaphore"); err != nil {
		return nil, err
	}
	return &Semaphore{Device: d, VKSemaphore: sema}, nil
}

func (s *Semaphore) Destroy() {
	s.Device.Driver.DestroySemaphore(s.VKSemaphore)
}
