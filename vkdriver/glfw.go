package vkdriver

import (
	"github.com/celer/vkboot"
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// GLFW is the window system. GLFW must only be used from the main thread.
type GLFW struct {
	lib *Library
}

var _ vkboot.WindowSystem = (*GLFW)(nil)

// NewGLFW initializes GLFW. lib is used for the native presentation query
// on platforms which have one.
func NewGLFW(lib *Library) (*GLFW, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "glfw init"), vkboot.ErrEnvironment)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.Mark(errors.New("glfw reports no vulkan support"), vkboot.ErrEnvironment)
	}
	return &GLFW{lib: lib}, nil
}

// Terminate destroys remaining windows and releases GLFW.
func (g *GLFW) Terminate() {
	glfw.Terminate()
}

func (g *GLFW) RequiredInstanceExtensions() ([]string, error) {
	// The query is global; the receiver is unused.
	exts := (*glfw.Window)(nil).GetRequiredInstanceExtensions()
	if len(exts) == 0 {
		return nil, errors.New("glfw found no surface extensions")
	}
	return exts, nil
}

// CreateWindow creates a hidden window without a client API.
func (g *GLFW) CreateWindow(title string, width, height int, proc vkboot.WindowProc) (vkboot.Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	return WrapWindow(w, proc), nil
}

func (g *GLFW) PresentationSupport(instance vk.Instance, pd vk.PhysicalDevice, family uint32) bool {
	return presentationSupport(g.lib, instance, pd, family)
}

func (g *GLFW) PollEvents() {
	glfw.PollEvents()
}

func (g *GLFW) WaitEvents() {
	glfw.WaitEvents()
}

// Window is a GLFW window.
type Window struct {
	GLFW *glfw.Window
}

var _ vkboot.Window = (*Window)(nil)

// WrapWindow adapts a GLFW window. When proc is set the window's close,
// size and iconify events are routed to it; windows created elsewhere are
// usually wrapped with a nil proc and keep their own callbacks.
func WrapWindow(w *glfw.Window, proc vkboot.WindowProc) *Window {
	win := &Window{GLFW: w}
	if proc == nil {
		return win
	}
	w.SetCloseCallback(func(*glfw.Window) {
		proc(win, vkboot.WindowEvent{Kind: vkboot.WindowClose})
	})
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		proc(win, vkboot.WindowEvent{Kind: vkboot.WindowResize, Width: width, Height: height})
	})
	w.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		kind := vkboot.WindowRestore
		if iconified {
			kind = vkboot.WindowMinimize
		}
		proc(win, vkboot.WindowEvent{Kind: kind})
	})
	return win
}

func (w *Window) FramebufferSize() (int, int) {
	return w.GLFW.GetFramebufferSize()
}

func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.GLFW.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, err
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (w *Window) Show() {
	w.GLFW.Show()
}

func (w *Window) Destroy() {
	w.GLFW.Destroy()
}
