package vkboot

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

// Submit submits one command buffer, waiting on wait at the colour
// attachment output stage and signalling signal and fence on completion.
func (q *Queue) Submit(cb *CommandBuffer, wait, signal *Semaphore, fence *Fence) error {
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{wait.VKSemaphore},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.VK()},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signal.VKSemaphore},
	}
	return Check(q.Device.Driver.QueueSubmit(q.VKQueue, &submitInfo, fence.VKFence), "vkQueueSubmit")
}

// Present queues image index of swapchain for presentation once wait is
// signalled. A stale swapchain is reported as ErrSwapchainStale.
func (q *Queue) Present(swapchain vk.Swapchain, index uint32, wait *Semaphore) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait.VKSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain},
		PImageIndices:      []uint32{index},
	}
	return CheckPresent(q.Device.Driver.QueuePresent(q.VKQueue, &presentInfo), "vkQueuePresentKHR")
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
