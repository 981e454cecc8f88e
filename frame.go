package vkboot

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FrameState is the position of a frame slot in the draw cycle.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameAcquiring
	FrameRecording
	FrameSubmitted
	FramePresented
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameRecording:
		return "recording"
	case FrameSubmitted:
		return "submitted"
	case FramePresented:
		return "presented"
	}
	return "unknown"
}

// FrameSlot holds the synchronization objects of one frame in flight.
type FrameSlot struct {
	State          FrameState
	Pool           *CommandPool
	CommandBuffer  *CommandBuffer
	ImageAvailable *Semaphore
	RenderFinished *Semaphore
	InFlight       *Fence
	// ImageIndex is the swapchain image acquired by the current use of the slot.
	ImageIndex uint32
}

func (s *FrameSlot) advance(from, to FrameState) error {
	if s.State != from {
		return precondition("frame slot is %s, expected %s before %s", s.State, from, to)
	}
	s.State = to
	return nil
}

// FrameSync is the ring of frame slots.
type FrameSync struct {
	Device *Device
	Slots  [FramesInFlight]FrameSlot
}

// CreateFrameSync creates a command pool with one command buffer, two
// semaphores and a signalled fence per slot. Each object is registered on
// ledger as it is created.
func (d *Device) CreateFrameSync(ledger *Ledger) (*FrameSync, error) {
	switch {
	case d == nil || d.Queue == nil:
		return nil, precondition("frame sync requires a device: create the device first")
	case ledger == nil:
		return nil, precondition("frame sync requires a cleanup ledger")
	}

	var err error
	fs := &FrameSync{Device: d}
	for i := range fs.Slots {
		slot := &fs.Slots[i]
		if slot.Pool, err = d.CreateCommandPool(d.Queue.QueueFamily); err != nil {
			return nil, err
		}
		if err := ledger.Add("command pool", d.destroyAny, slot.Pool); err != nil {
			slot.Pool.Destroy()
			return nil, err
		}
		if slot.CommandBuffer, err = slot.Pool.AllocateBuffer(); err != nil {
			return nil, err
		}
		if slot.ImageAvailable, err = d.createRegisteredSemaphore(ledger); err != nil {
			return nil, err
		}
		if slot.RenderFinished, err = d.createRegisteredSemaphore(ledger); err != nil {
			return nil, err
		}
		if slot.InFlight, err = d.CreateFence(true); err != nil {
			return nil, err
		}
		if err := ledger.Add("fence", d.destroyAny, slot.InFlight); err != nil {
			slot.InFlight.Destroy()
			return nil, err
		}
	}
	logger.Debug("frame sync created", "slots", FramesInFlight)
	return fs, nil
}

func (d *Device) createRegisteredSemaphore(ledger *Ledger) (*Semaphore, error) {
	s, err := d.CreateSemaphore()
	if err != nil {
		return nil, err
	}
	if err := ledger.Add("semaphore", d.destroyAny, s); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// FlashColor is the clear colour of a frame: a sinusoid of the frame number
// with the given period, so the window visibly pulses.
func FlashColor(frame uint64, period int) [4]float32 {
	if period <= 0 {
		period = 1
	}
	phase := float64(frame%uint64(period)) / float64(period)
	v := float32(0.5 + 0.5*math.Sin(2*math.Pi*phase))
	return [4]float32{v, v * 0.5, 1 - v, 1}
}

// FrameLoop draws the clear and present cycle into a swapchain and rebuilds
// it when the window asks.
type FrameLoop struct {
	Device      *Device
	Surface     *Surface
	Swapchain   *SwapchainSlot
	Sync        *FrameSync
	Timeout     time.Duration
	FlashPeriod int

	// FrameNumber counts presented frames.
	FrameNumber uint64

	suspended bool
}

// NewFrameLoop wires the loop to its collaborators.
func NewFrameLoop(device *Device, surface *Surface, swapchain *SwapchainSlot, sync *FrameSync, cfg FrameConfig) (*FrameLoop, error) {
	if device == nil || surface == nil || swapchain == nil || sync == nil {
		return nil, precondition("frame loop requires a device, surface, swapchain and frame sync")
	}
	return &FrameLoop{
		Device:      device,
		Surface:     surface,
		Swapchain:   swapchain,
		Sync:        sync,
		Timeout:     cfg.Timeout,
		FlashPeriod: cfg.FlashPeriod,
	}, nil
}

// Slot returns the index of the slot the next frame uses.
func (f *FrameLoop) Slot() int {
	return int(f.FrameNumber % FramesInFlight)
}

// Tick runs one iteration after events were pumped: it applies a pending
// resize and draws a frame when the window allows. It reports whether a
// frame was drawn.
func (f *FrameLoop) Tick() (bool, error) {
	state := f.Surface.State
	if !state.ShouldDraw() {
		f.suspended = true
		return false, nil
	}
	if f.suspended {
		f.suspended = false
		ext := f.Surface.CurrentExtent()
		state.RequestResize(ext.Width, ext.Height)
	}
	if ext, ok := state.TakeResize(); ok {
		if ext.Width == 0 || ext.Height == 0 {
			state.Suspend()
			f.suspended = true
			return false, nil
		}
		if err := f.Resize(ext); err != nil {
			return false, err
		}
	}
	return f.DrawFrame()
}

// Resize waits for the device to go idle and rebuilds the swapchain at
// extent, reusing the current one. A zero extent leaves it untouched.
func (f *FrameLoop) Resize(extent vk.Extent2D) error {
	if extent.Width == 0 || extent.Height == 0 {
		return nil
	}
	if err := f.Device.WaitIdle(); err != nil {
		return err
	}
	return f.Swapchain.Rebuild(extent)
}

// DrawFrame runs one clear and present cycle on the current slot. It
// reports false when the swapchain was stale on acquisition; a rebuild is
// then pending and no frame was drawn.
func (f *FrameLoop) DrawFrame() (bool, error) {
	slot := &f.Sync.Slots[f.Slot()]
	if slot.State != FrameIdle && slot.State != FramePresented {
		return false, precondition("frame slot %d reused while %s", f.Slot(), slot.State)
	}

	if err := slot.InFlight.Wait(f.Timeout); err != nil {
		return false, errors.Wrapf(err, "frame %d", f.FrameNumber)
	}
	slot.State = FrameIdle
	if err := slot.advance(FrameIdle, FrameAcquiring); err != nil {
		return false, err
	}

	sc := f.Swapchain.Current
	idx, res := f.Device.Driver.AcquireNextImage(sc.VKSwapchain, f.Timeout, slot.ImageAvailable.VKSemaphore)
	if err := CheckPresent(res, "vkAcquireNextImageKHR"); err != nil {
		if errors.Is(err, ErrSwapchainStale) {
			slot.State = FrameIdle
			f.requeueResize()
			return false, nil
		}
		return false, err
	}
	if idx >= SwapchainImageCount {
		return false, errors.Mark(errors.Newf("acquired image index %d out of range", idx), ErrDriver)
	}
	slot.ImageIndex = idx

	// The fence is reset only once work is certain to be submitted, so a
	// stale acquisition leaves it signalled.
	if err := slot.InFlight.Reset(); err != nil {
		return false, err
	}

	if err := slot.advance(FrameAcquiring, FrameRecording); err != nil {
		return false, err
	}
	if err := f.record(slot.CommandBuffer, sc.Images[idx]); err != nil {
		return false, err
	}

	if err := slot.advance(FrameRecording, FrameSubmitted); err != nil {
		return false, err
	}
	if err := f.Device.Queue.Submit(slot.CommandBuffer, slot.ImageAvailable, slot.RenderFinished, slot.InFlight); err != nil {
		return false, err
	}

	if err := slot.advance(FrameSubmitted, FramePresented); err != nil {
		return false, err
	}
	err := f.Device.Queue.Present(sc.VKSwapchain, idx, slot.RenderFinished)
	f.FrameNumber++
	if err != nil {
		if errors.Is(err, ErrSwapchainStale) {
			f.requeueResize()
			return true, nil
		}
		return true, err
	}
	return true, nil
}

func (f *FrameLoop) record(cb *CommandBuffer, img *Image) error {
	if err := cb.Reset(); err != nil {
		return err
	}
	if err := cb.BeginOneTime(); err != nil {
		return err
	}
	if err := cb.TransitionImageLayout(img, vk.ImageLayoutUndefined, vk.ImageLayoutGeneral); err != nil {
		return err
	}
	cb.CmdClearColorImage(img, FlashColor(f.FrameNumber, f.FlashPeriod))
	if err := cb.TransitionImageLayout(img, vk.ImageLayoutGeneral, vk.ImageLayoutPresentSrc); err != nil {
		return err
	}
	return cb.End()
}

func (f *FrameLoop) requeueResize() {
	ext := f.Surface.CurrentExtent()
	logger.Debug("swapchain out of date", "width", ext.Width, "height", ext.Height)
	if ext.Width == 0 || ext.Height == 0 {
		// Nothing can be presented until the window regains an area.
		f.Surface.State.Suspend()
		return
	}
	f.Surface.State.RequestResize(ext.Width, ext.Height)
}
