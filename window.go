package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
)

// WindowEventKind identifies a window notification.
type WindowEventKind int

const (
	WindowClose WindowEventKind = iota + 1
	WindowResize
	WindowMinimize
	WindowRestore
)

func (k WindowEventKind) String() string {
	switch k {
	case WindowClose:
		return "close"
	case WindowResize:
		return "resize"
	case WindowMinimize:
		return "minimize"
	case WindowRestore:
		return "restore"
	}
	return "unknown"
}

// WindowEvent is delivered by the window system to a WindowProc. Width and
// Height are set for WindowResize.
type WindowEvent struct {
	Kind   WindowEventKind
	Width  int
	Height int
}

// WindowState is the mutable state shared between the window procedure and
// the frame loop. Both run on the thread that pumps events, so it carries no
// locking.
type WindowState struct {
	quit          bool
	shouldDraw    bool
	resizePending bool
	pending       vk.Extent2D
}

func newWindowState() *WindowState {
	return &WindowState{shouldDraw: true}
}

// QuitRequested reports whether the window was closed.
func (s *WindowState) QuitRequested() bool {
	return s.quit
}

// ShouldDraw reports whether frames should be drawn, false while minimized
// or after close.
func (s *WindowState) ShouldDraw() bool {
	return s.shouldDraw && !s.quit
}

// ResizePending reports whether a resize is waiting to be taken.
func (s *WindowState) ResizePending() bool {
	return s.resizePending
}

// TakeResize returns the pending extent and clears the resize flag.
func (s *WindowState) TakeResize() (vk.Extent2D, bool) {
	if !s.resizePending {
		return vk.Extent2D{}, false
	}
	s.resizePending = false
	return s.pending, true
}

// RequestResize queues a swapchain rebuild at the given size.
func (s *WindowState) RequestResize(width, height uint32) {
	s.resizePending = true
	s.pending = vk.Extent2D{Width: width, Height: height}
}

// Suspend stops drawing until the window is restored or resized to a
// nonzero size. A pending resize is dropped.
func (s *WindowState) Suspend() {
	s.shouldDraw = false
	s.resizePending = false
}

func (s *WindowState) apply(ev WindowEvent) {
	switch ev.Kind {
	case WindowClose:
		s.quit = true
		s.shouldDraw = false
	case WindowResize:
		if ev.Width <= 0 || ev.Height <= 0 {
			s.shouldDraw = false
			return
		}
		s.shouldDraw = true
		s.RequestResize(uint32(ev.Width), uint32(ev.Height))
	case WindowMinimize:
		s.shouldDraw = false
	case WindowRestore:
		s.shouldDraw = true
	}
}

// WindowTable associates windows with their runtime state. It replaces the
// per-window user pointer of the native window system.
type WindowTable struct {
	states map[Window]*WindowState
}

// NewWindowTable returns an empty table.
func NewWindowTable() *WindowTable {
	return &WindowTable{states: make(map[Window]*WindowState)}
}

// Register allocates the runtime state of w.
func (t *WindowTable) Register(w Window) (*WindowState, error) {
	if w == nil {
		return nil, precondition("window state registered for a nil window")
	}
	if _, ok := t.states[w]; ok {
		return nil, precondition("window registered twice")
	}
	s := newWindowState()
	t.states[w] = s
	return s, nil
}

// Unregister frees the runtime state of w.
func (t *WindowTable) Unregister(w Window) {
	delete(t.states, w)
}

// Lookup returns the runtime state of w, or nil.
func (t *WindowTable) Lookup(w Window) *WindowState {
	return t.states[w]
}

// Len returns the number of registered windows.
func (t *WindowTable) Len() int {
	return len(t.states)
}

// Dispatch is the window procedure: it routes ev into the state of w.
// Events for windows without state are dropped.
func (t *WindowTable) Dispatch(w Window, ev WindowEvent) {
	s := t.states[w]
	if s == nil {
		logger.Warn("window event without state dropped", "event", ev.Kind.String())
		return
	}
	s.apply(ev)
}
