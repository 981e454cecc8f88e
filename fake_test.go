package vkboot

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// fakeGPU describes one physical device of the fake driver.
type fakeGPU struct {
	name       string
	formats    []vk.SurfaceFormat
	families   []vk.QueueFamilyProperties
	present    []bool
	extensions []string
	layers     map[string][]string
}

func goodGPU(name string) *fakeGPU {
	return &fakeGPU{
		name:       name,
		formats:    []vk.SurfaceFormat{{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorspaceSrgbNonlinear}},
		families:   []vk.QueueFamilyProperties{{QueueFlags: vk.QueueFlags(vk.QueueGraphicsBit), QueueCount: 1}},
		present:    []bool{true},
		extensions: []string{"VK_KHR_swapchain"},
	}
}

// fakeDriver implements all three driver waves and records every call that
// creates or destroys something, in order.
type fakeDriver struct {
	log []string

	instanceExtensions []string
	instanceLayers     []string
	gpus               []*fakeGPU
	pdHandles          []vk.PhysicalDevice

	caps            vk.SurfaceCapabilities
	swapchainImages int
	acquireIndex    uint32
	failViewAt      int

	lastSwapchainInfo *vk.SwapchainCreateInfo
	lastDeviceInfo    *vk.DeviceCreateInfo
	clearColors       [][4]float32
	barriers          []vk.ImageLayout

	// fail holds one-shot results keyed by native function name.
	fail map[string]vk.Result

	names  map[unsafe.Pointer]string
	counts map[string]int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		instanceExtensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_EXT_debug_utils", "VK_EXT_debug_report"},
		instanceLayers:     []string{"VK_LAYER_KHRONOS_validation"},
		gpus:               []*fakeGPU{goodGPU("gpu0")},
		caps: vk.SurfaceCapabilities{
			MinImageCount:  3,
			MaxImageCount:  3,
			MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
		},
		swapchainImages: SwapchainImageCount,
		failViewAt:      -1,
		fail:            make(map[string]vk.Result),
		names:           make(map[unsafe.Pointer]string),
		counts:          make(map[string]int),
	}
}

func (f *fakeDriver) record(format string, args ...interface{}) {
	f.log = append(f.log, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) handle(kind string) unsafe.Pointer {
	p := unsafe.Pointer(new(uint64))
	f.names[p] = fmt.Sprintf("%s%d", kind, f.counts[kind])
	f.counts[kind]++
	return p
}

func (f *fakeDriver) name(p unsafe.Pointer) string {
	if n, ok := f.names[p]; ok {
		return n
	}
	return "null"
}

func (f *fakeDriver) result(call string) vk.Result {
	if r, ok := f.fail[call]; ok {
		delete(f.fail, call)
		return r
	}
	return vk.Success
}

// calls returns the recorded calls starting with prefix.
func (f *fakeDriver) calls(prefix string) []string {
	var out []string
	for _, c := range f.log {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// indexOf returns the position of call in the log, or -1.
func (f *fakeDriver) indexOf(call string) int {
	for i, c := range f.log {
		if c == call {
			return i
		}
	}
	return -1
}

func (f *fakeDriver) gpu(pd vk.PhysicalDevice) *fakeGPU {
	for i, h := range f.pdHandles {
		if h == pd {
			return f.gpus[i]
		}
	}
	return nil
}

// Loader

func (f *fakeDriver) InstanceExtensions() ([]string, vk.Result) {
	return f.instanceExtensions, f.result("vkEnumerateInstanceExtensionProperties")
}

func (f *fakeDriver) InstanceLayers() ([]string, vk.Result) {
	return f.instanceLayers, f.result("vkEnumerateInstanceLayerProperties")
}

func (f *fakeDriver) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, vk.Result) {
	if r := f.result("vkCreateInstance"); r != vk.Success {
		return nil, r
	}
	h := vk.Instance(f.handle("instance"))
	f.record("CreateInstance %s", f.name(unsafe.Pointer(h)))
	return h, vk.Success
}

func (f *fakeDriver) LoadInstance(instance vk.Instance) (InstanceDriver, error) {
	f.record("LoadInstance")
	return f, nil
}

// InstanceDriver

func (f *fakeDriver) Instance() vk.Instance { return nil }

func (f *fakeDriver) DestroyInstance() {
	f.record("DestroyInstance")
}

func (f *fakeDriver) InstallDebugReport(fn DebugReportFunc) (vk.DebugReportCallback, vk.Result) {
	h := vk.DebugReportCallback(f.handle("debug"))
	f.record("InstallDebugReport")
	return h, vk.Success
}

func (f *fakeDriver) DestroyDebugReport(cb vk.DebugReportCallback) {
	f.record("DestroyDebugReport")
}

func (f *fakeDriver) PhysicalDevices() ([]vk.PhysicalDevice, vk.Result) {
	if f.pdHandles == nil {
		for range f.gpus {
			f.pdHandles = append(f.pdHandles, vk.PhysicalDevice(f.handle("pd")))
		}
	}
	return f.pdHandles, f.result("vkEnumeratePhysicalDevices")
}

func (f *fakeDriver) Properties(pd vk.PhysicalDevice) DeviceProperties {
	return DeviceProperties{
		Name:       f.gpu(pd).name,
		Type:       vk.PhysicalDeviceTypeDiscreteGpu,
		APIVersion: Version{Major: 1, Minor: 3}.VKVersion(),
	}
}

func (f *fakeDriver) MemoryHeaps(pd vk.PhysicalDevice) []MemoryHeap {
	return []MemoryHeap{{Size: 8 << 30, DeviceLocal: true}}
}

func (f *fakeDriver) QueueFamilies(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	return f.gpu(pd).families
}

func (f *fakeDriver) Features(pd vk.PhysicalDevice) vk.PhysicalDeviceFeatures {
	return vk.PhysicalDeviceFeatures{}
}

func (f *fakeDriver) DeviceExtensions(pd vk.PhysicalDevice, layer string) ([]string, vk.Result) {
	g := f.gpu(pd)
	if layer == "" {
		return g.extensions, vk.Success
	}
	return g.layers[layer], vk.Success
}

func (f *fakeDriver) DeviceLayers(pd vk.PhysicalDevice) ([]string, vk.Result) {
	var layers []string
	for l := range f.gpu(pd).layers {
		layers = append(layers, l)
	}
	return layers, vk.Success
}

func (f *fakeDriver) SurfaceSupport(pd vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, vk.Result) {
	return f.gpu(pd).present[family], vk.Success
}

func (f *fakeDriver) SurfaceFormats(pd vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, vk.Result) {
	return f.gpu(pd).formats, vk.Success
}

func (f *fakeDriver) SurfaceCapabilities(pd vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, vk.Result) {
	return f.caps, f.result("vkGetPhysicalDeviceSurfaceCapabilitiesKHR")
}

func (f *fakeDriver) DestroySurface(surface vk.Surface) {
	f.record("DestroySurface %s", f.name(unsafe.Pointer(surface)))
}

func (f *fakeDriver) CreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, vk.Result) {
	if r := f.result("vkCreateDevice"); r != vk.Success {
		return nil, r
	}
	f.lastDeviceInfo = info
	h := vk.Device(f.handle("device"))
	f.record("CreateDevice %s", f.gpu(pd).name)
	return h, vk.Success
}

func (f *fakeDriver) LoadDevice(device vk.Device) (DeviceDriver, error) {
	f.record("LoadDevice")
	return f, nil
}

// DeviceDriver

func (f *fakeDriver) Device() vk.Device { return nil }

func (f *fakeDriver) DestroyDevice() {
	f.record("DestroyDevice")
}

func (f *fakeDriver) WaitIdle() vk.Result {
	f.record("WaitIdle")
	return f.result("vkDeviceWaitIdle")
}

func (f *fakeDriver) Queue(family, index uint32) vk.Queue {
	return vk.Queue(f.handle("queue"))
}

func (f *fakeDriver) CreateSwapchain(info *vk.SwapchainCreateInfo) (vk.Swapchain, vk.Result) {
	if r := f.result("vkCreateSwapchainKHR"); r != vk.Success {
		return nil, r
	}
	f.lastSwapchainInfo = info
	h := vk.Swapchain(f.handle("swapchain"))
	f.record("CreateSwapchain %s old=%s", f.name(unsafe.Pointer(h)), f.name(unsafe.Pointer(info.OldSwapchain)))
	return h, vk.Success
}

func (f *fakeDriver) DestroySwapchain(swapchain vk.Swapchain) {
	f.record("DestroySwapchain %s", f.name(unsafe.Pointer(swapchain)))
}

func (f *fakeDriver) SwapchainImages(swapchain vk.Swapchain) ([]vk.Image, vk.Result) {
	images := make([]vk.Image, f.swapchainImages)
	for i := range images {
		images[i] = vk.Image(f.handle("image"))
	}
	return images, vk.Success
}

func (f *fakeDriver) CreateImageView(info *vk.ImageViewCreateInfo) (vk.ImageView, vk.Result) {
	if f.failViewAt >= 0 && f.counts["view"] == f.failViewAt {
		f.failViewAt = -1
		return nil, vk.ErrorOutOfHostMemory
	}
	h := vk.ImageView(f.handle("view"))
	f.record("CreateImageView %s", f.name(unsafe.Pointer(h)))
	return h, vk.Success
}

func (f *fakeDriver) DestroyImageView(view vk.ImageView) {
	f.record("DestroyImageView %s", f.name(unsafe.Pointer(view)))
}

func (f *fakeDriver) CreateCommandPool(info *vk.CommandPoolCreateInfo) (vk.CommandPool, vk.Result) {
	h := vk.CommandPool(f.handle("pool"))
	f.record("CreateCommandPool %s", f.name(unsafe.Pointer(h)))
	return h, vk.Success
}

func (f *fakeDriver) DestroyCommandPool(pool vk.CommandPool) {
	f.record("DestroyCommandPool %s", f.name(unsafe.Pointer(pool)))
}

func (f *fakeDriver) AllocateCommandBuffer(info *vk.CommandBufferAllocateInfo) (vk.CommandBuffer, vk.Result) {
	return vk.CommandBuffer(f.handle("cb")), vk.Success
}

func (f *fakeDriver) ResetCommandBuffer(cb vk.CommandBuffer) vk.Result {
	f.record("ResetCommandBuffer %s", f.name(unsafe.Pointer(cb)))
	return vk.Success
}

func (f *fakeDriver) BeginCommandBuffer(cb vk.CommandBuffer, info *vk.CommandBufferBeginInfo) vk.Result {
	f.record("BeginCommandBuffer %s", f.name(unsafe.Pointer(cb)))
	return vk.Success
}

func (f *fakeDriver) EndCommandBuffer(cb vk.CommandBuffer) vk.Result {
	f.record("EndCommandBuffer %s", f.name(unsafe.Pointer(cb)))
	return vk.Success
}

func (f *fakeDriver) CmdImageBarrier(cb vk.CommandBuffer, src, dst vk.PipelineStageFlags, barrier *vk.ImageMemoryBarrier) {
	f.barriers = append(f.barriers, barrier.NewLayout)
	f.record("CmdImageBarrier %s", f.name(unsafe.Pointer(barrier.Image)))
}

func (f *fakeDriver) CmdClearColorImage(cb vk.CommandBuffer, image vk.Image, layout vk.ImageLayout, color [4]float32, subresource vk.ImageSubresourceRange) {
	f.clearColors = append(f.clearColors, color)
	f.record("CmdClearColorImage %s", f.name(unsafe.Pointer(image)))
}

func (f *fakeDriver) CreateSemaphore() (vk.Semaphore, vk.Result) {
	h := vk.Semaphore(f.handle("semaphore"))
	f.record("CreateSemaphore %s", f.name(unsafe.Pointer(h)))
	return h, vk.Success
}

func (f *fakeDriver) DestroySemaphore(s vk.Semaphore) {
	f.record("DestroySemaphore %s", f.name(unsafe.Pointer(s)))
}

func (f *fakeDriver) CreateFence(signaled bool) (vk.Fence, vk.Result) {
	h := vk.Fence(f.handle("fence"))
	f.record("CreateFence %s signaled=%v", f.name(unsafe.Pointer(h)), signaled)
	return h, vk.Success
}

func (f *fakeDriver) DestroyFence(fence vk.Fence) {
	f.record("DestroyFence %s", f.name(unsafe.Pointer(fence)))
}

func (f *fakeDriver) WaitForFence(fence vk.Fence, timeout time.Duration) vk.Result {
	f.record("WaitForFence %s", f.name(unsafe.Pointer(fence)))
	return f.result("vkWaitForFences")
}

func (f *fakeDriver) ResetFence(fence vk.Fence) vk.Result {
	f.record("ResetFence %s", f.name(unsafe.Pointer(fence)))
	return vk.Success
}

func (f *fakeDriver) AcquireNextImage(swapchain vk.Swapchain, timeout time.Duration, semaphore vk.Semaphore) (uint32, vk.Result) {
	f.record("AcquireNextImage %s %s", f.name(unsafe.Pointer(swapchain)), f.name(unsafe.Pointer(semaphore)))
	if r := f.result("vkAcquireNextImageKHR"); r != vk.Success {
		return 0, r
	}
	idx := f.acquireIndex
	f.acquireIndex = (f.acquireIndex + 1) % SwapchainImageCount
	return idx, vk.Success
}

func (f *fakeDriver) QueueSubmit(queue vk.Queue, info *vk.SubmitInfo, fence vk.Fence) vk.Result {
	f.record("QueueSubmit wait=%s signal=%s fence=%s",
		f.name(unsafe.Pointer(info.PWaitSemaphores[0])),
		f.name(unsafe.Pointer(info.PSignalSemaphores[0])),
		f.name(unsafe.Pointer(fence)))
	return f.result("vkQueueSubmit")
}

func (f *fakeDriver) QueuePresent(queue vk.Queue, info *vk.PresentInfo) vk.Result {
	f.record("QueuePresent %s image=%d wait=%s",
		f.name(unsafe.Pointer(info.PSwapchains[0])), info.PImageIndices[0],
		f.name(unsafe.Pointer(info.PWaitSemaphores[0])))
	return f.result("vkQueuePresentKHR")
}

// fakeWindow is a window of fakeSystem.
type fakeWindow struct {
	sys       *fakeSystem
	id        int
	width     int
	height    int
	shown     int
	destroyed int
	// stateAtShow records whether the window had state when shown.
	stateAtShow bool
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *fakeWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	drv := w.sys.drv
	h := vk.Surface(drv.handle("surface"))
	drv.record("CreateSurface w%d %s", w.id, drv.name(unsafe.Pointer(h)))
	return h, nil
}

func (w *fakeWindow) Show() {
	w.shown++
	w.stateAtShow = w.sys.table != nil && w.sys.table.Lookup(w) != nil
	w.sys.drv.record("ShowWindow w%d", w.id)
}

func (w *fakeWindow) Destroy() {
	w.destroyed++
	w.sys.drv.record("DestroyWindow w%d", w.id)
}

// fakeSystem is a window system without windows on screen.
type fakeSystem struct {
	drv     *fakeDriver
	table   *WindowTable
	windows []*fakeWindow
	procs   map[*fakeWindow]WindowProc
	// sizeDelta is added to the requested size, like window decorations.
	sizeDelta int
	polls     int
	waits     int
	// onPoll runs on every event pump.
	onPoll func()
}

func newFakeSystem(drv *fakeDriver) *fakeSystem {
	return &fakeSystem{drv: drv, procs: make(map[*fakeWindow]WindowProc)}
}

func (s *fakeSystem) newWindow(width, height int) *fakeWindow {
	w := &fakeWindow{sys: s, id: len(s.windows), width: width, height: height}
	s.windows = append(s.windows, w)
	return w
}

func (s *fakeSystem) RequiredInstanceExtensions() ([]string, error) {
	return []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}, nil
}

func (s *fakeSystem) CreateWindow(title string, width, height int, proc WindowProc) (Window, error) {
	w := s.newWindow(width-s.sizeDelta, height-s.sizeDelta)
	s.procs[w] = proc
	s.drv.record("CreateWindow w%d", w.id)
	return w, nil
}

func (s *fakeSystem) PresentationSupport(instance vk.Instance, pd vk.PhysicalDevice, family uint32) bool {
	return true
}

func (s *fakeSystem) PollEvents() {
	s.polls++
	if s.onPoll != nil {
		s.onPoll()
	}
}

func (s *fakeSystem) WaitEvents() {
	s.waits++
	if s.onPoll != nil {
		s.onPoll()
	}
}

// send delivers ev to w through the procedure it was created with.
func (s *fakeSystem) send(w *fakeWindow, ev WindowEvent) {
	s.procs[w](w, ev)
}

// captureLog routes package logging into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { logger = prev })
	return &buf
}

// harness builds the initialization chain on the fake driver.
type harness struct {
	drv      *fakeDriver
	sys      *fakeSystem
	windows  *WindowTable
	ledger   *Ledger
	cfg      Config
	instance *Instance
	surface  *Surface
	device   *Device
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	drv := newFakeDriver()
	sys := newFakeSystem(drv)
	windows := NewWindowTable()
	sys.table = windows
	ledger, err := NewLedger(64)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 640, 480
	return &harness{drv: drv, sys: sys, windows: windows, ledger: ledger, cfg: cfg}
}

func (h *harness) createInstance(t *testing.T) *Instance {
	t.Helper()
	app := NewApp(h.cfg.App, h.cfg.Instance)
	exts, _ := h.sys.RequiredInstanceExtensions()
	app.RequireExtensions(exts...)
	instance, err := app.CreateInstance(h.drv, h.ledger)
	if err != nil {
		t.Fatal(err)
	}
	h.instance = instance
	return instance
}

func (h *harness) createSurface(t *testing.T, w Window) *Surface {
	t.Helper()
	if h.instance == nil {
		h.createInstance(t)
	}
	s, err := h.instance.CreateSurface(h.sys, h.windows, w, h.cfg.Window, h.ledger)
	if err != nil {
		t.Fatal(err)
	}
	h.surface = s
	return s
}

func (h *harness) createDevice(t *testing.T) *Device {
	t.Helper()
	if h.surface == nil {
		h.createSurface(t, nil)
	}
	d, err := h.instance.CreateDevice(h.surface, h.cfg.Device, h.ledger)
	if err != nil {
		t.Fatal(err)
	}
	h.device = d
	return d
}
