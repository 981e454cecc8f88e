package vkboot

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Surface is a presentable target bound to a window.
type Surface struct {
	VKSurface vk.Surface
	Window    Window
	System    WindowSystem
	State     *WindowState
	// Owned windows were created by CreateSurface and are destroyed with it.
	Owned bool
	// Width and Height are the client area when the surface was created.
	Width  int
	Height int

	windows    *WindowTable
	registered bool
}

// Extent returns the client area size as a swapchain extent.
func (s *Surface) Extent() vk.Extent2D {
	return clientExtent(s.Width, s.Height)
}

// CurrentExtent queries the window for its client area now.
func (s *Surface) CurrentExtent() vk.Extent2D {
	return clientExtent(s.Window.FramebufferSize())
}

// clientExtent converts a window size, clamping negatives to zero.
func clientExtent(w, h int) vk.Extent2D {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return vk.Extent2D{Width: uint32(w), Height: uint32(h)}
}

// CreateSurface binds a surface to window. A nil window makes CreateSurface
// create one from cfg and own it; a supplied window is borrowed and never
// destroyed. The window is shown only after its state is registered in
// windows, so no event reaches it unrouted.
func (i *Instance) CreateSurface(ws WindowSystem, windows *WindowTable, window Window, cfg WindowConfig, ledger *Ledger) (*Surface, error) {
	switch {
	case i == nil:
		return nil, precondition("surface requires an instance: create the instance first")
	case ws == nil:
		return nil, precondition("surface requires a window system")
	case windows == nil:
		return nil, precondition("surface requires a window table")
	case ledger == nil:
		return nil, precondition("surface requires a cleanup ledger")
	}

	s := &Surface{System: ws, Window: window, windows: windows}
	if window == nil {
		width, height := cfg.WindowSize()
		w, err := ws.CreateWindow(cfg.Title, width, height, windows.Dispatch)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "create window"), ErrEnvironment)
		}
		s.Window = w
		s.Owned = true
	}

	s.State = windows.Lookup(s.Window)
	if s.State == nil {
		state, err := windows.Register(s.Window)
		if err != nil {
			s.release()
			return nil, err
		}
		s.State = state
		s.registered = true
	}

	s.Width, s.Height = s.Window.FramebufferSize()

	handle, err := s.Window.CreateSurface(i.VKInstance)
	if err != nil {
		s.release()
		return nil, errors.Mark(errors.Wrap(err, "create window surface"), ErrDriver)
	}
	s.VKSurface = handle

	if err := ledger.Add("surface", func(interface{}) error {
		i.Driver.DestroySurface(s.VKSurface)
		s.release()
		return nil
	}, s); err != nil {
		i.Driver.DestroySurface(s.VKSurface)
		s.release()
		return nil, err
	}

	if s.Owned && !cfg.Headless {
		s.Window.Show()
	}
	logger.Info("surface created", "owned", s.Owned, "width", s.Width, "height", s.Height)
	return s, nil
}

// release drops the window state and, when owned, the window.
func (s *Surface) release() {
	if s.registered {
		s.windows.Unregister(s.Window)
		s.registered = false
	}
	if s.Owned && s.Window != nil {
		s.Window.Destroy()
		s.Window = nil
	}
}
