/*
Package vkboot gets a Go program from "no graphics context" to a window that
can display frames forever, including through resizes, on top of Vulkan.

Vulkan asks the application to do everything: find the driver, load its
functions in stages, negotiate extensions, layers, formats and queue
families, and tear every object down again in the right order. This package
does that sequence and nothing more, ending in a frame loop which clears and
presents a swapchain image.

Initialization chain

	1. Load the driver entry point and the loader functions (see package vkdriver)
	2. Create the instance and load the instance functions
	3. Create or borrow a window and bind a surface to it
	4. Pick the first physical device that can present to the surface and
	   create the logical device, loading the device functions
	5. Build a swapchain of exactly SwapchainImageCount images
	6. Create FramesInFlight sets of command buffer, semaphores and fence
	7. Draw frames, rebuilding the swapchain when the window is resized

Every step registers the teardown of what it created on a Ledger. Running the
ledger releases everything in the reverse order of creation, whichever step
failed.

Driver access

The driver is reached through three interfaces, Loader, InstanceDriver and
DeviceDriver, one per loading wave. Each is obtained from a handle created
with the previous one, so a function cannot be called before its wave is
loaded. They return the raw native status, which this package routes through
Check, CheckIncomplete, CheckPresent or CheckAlloc.

Errors

All errors carry one of ErrEnvironment, ErrDriver, ErrAllocation,
ErrPrecondition, ErrTimeout or ErrSwapchainStale and can be tested with
errors.Is. Only ErrSwapchainStale is recovered from, by rebuilding the
swapchain. Engine.Main is the single termination point that tears down and
hands the rest to a FaultReporter.

Native Vulkan terms
	Instance 	the vulkan runtime instance
	PhysicalDevice	the physical hardware device
	Device		a representation of the device which is the target of most of the vulkan apis.
	Queue 		a queue which work (command buffers) may be submitted to
	Surface		a presentable target bound to a window
	Swapchain	a grouping of images which are used to display graphical data
	ImageView	a way of describing how an image is utilized or viewed
	Fence		signalled by the GPU when submitted work completes, waited on by the host
	Semaphore	orders work between submissions on the GPU
*/
package vkboot
