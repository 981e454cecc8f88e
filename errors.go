package vkboot

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Error kinds. Every error produced by this package is marked with exactly one
// of these so callers can test it with errors.Is.
var (
	// ErrEnvironment marks a misconfigured host or configuration: missing
	// driver library, extension, layer, suitable device, swapchain image count
	// or an invalid config file.
	ErrEnvironment = errors.New("environment error")
	// ErrDriver marks a non-success status from a native call.
	ErrDriver = errors.New("driver call failed")
	// ErrAllocation marks host or device memory exhaustion.
	ErrAllocation = errors.New("allocation failed")
	// ErrPrecondition marks an initialization ordering violation.
	ErrPrecondition = errors.New("precondition violated")
	// ErrTimeout marks an expired fence wait or image acquisition.
	ErrTimeout = errors.New("timeout")
	// ErrSwapchainStale is returned by CheckPresent when the swapchain no longer
	// matches the surface. It is the only recoverable condition in the frame loop.
	ErrSwapchainStale = errors.New("swapchain out of date")
)

// resultString gives a readable name for a native status code.
func resultString(res vk.Result) string {
	if err := vk.Error(res); err != nil {
		return fmt.Sprintf("%s (%d)", err.Error(), int32(res))
	}
	return fmt.Sprintf("VkResult(%d)", int32(res))
}

// Check is the single fatal-on-error funnel for native status codes.
func Check(res vk.Result, call string) error {
	switch res {
	case vk.Success:
		return nil
	case vk.Timeout, vk.NotReady:
		return errors.Mark(errors.Newf("%s: %s", call, resultString(res)), ErrTimeout)
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory:
		return errors.Mark(errors.Newf("%s: %s", call, resultString(res)), ErrAllocation)
	}
	return errors.Mark(errors.Newf("%s: %s", call, resultString(res)), ErrDriver)
}

// CheckIncomplete is Check for enumeration calls, where vk.Incomplete only
// means the caller's array was shorter than the driver's list.
func CheckIncomplete(res vk.Result, call string) error {
	if res == vk.Incomplete {
		logger.Debug("enumeration incomplete", "call", call)
		return nil
	}
	return Check(res, call)
}

// CheckPresent is Check for image acquisition and presentation. vk.Suboptimal
// is accepted and vk.ErrorOutOfDate is reported as ErrSwapchainStale.
func CheckPresent(res vk.Result, call string) error {
	switch res {
	case vk.Suboptimal:
		return nil
	case vk.ErrorOutOfDate:
		return errors.Mark(errors.Newf("%s: %s", call, resultString(res)), ErrSwapchainStale)
	}
	return Check(res, call)
}

// CheckAlloc is the dedicated allocation check. Any failure is an allocation
// failure regardless of the status code.
func CheckAlloc(res vk.Result, call string) error {
	if res == vk.Success {
		return nil
	}
	return errors.Mark(errors.Newf("%s: %s", call, resultString(res)), ErrAllocation)
}

func precondition(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrPrecondition)
}

func environment(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrEnvironment)
}
