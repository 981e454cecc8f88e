package vkboot

import (
	"github.com/cockroachdb/errors"
)

// Engine drives the whole bootstrap: instance, surface, device, swapchain
// and frame sync, then the draw loop. Every native object it creates is
// owned by its Ledger.
type Engine struct {
	Config   Config
	Loader   Loader
	System   WindowSystem
	Reporter FaultReporter
	// Window, when set before Init, is borrowed instead of creating one.
	Window Window
	// Interrupt, when closed, stops Run as if the window had been closed.
	Interrupt <-chan struct{}

	Ledger    *Ledger
	Windows   *WindowTable
	App       *App
	Instance  *Instance
	Surface   *Surface
	Device    *Device
	Swapchain *SwapchainSlot
	Sync      *FrameSync
	Loop      *FrameLoop

	destroyed bool
}

// NewEngine creates an engine which will load the driver through loader
// and create windows with ws.
func NewEngine(cfg Config, loader Loader, ws WindowSystem) *Engine {
	return &Engine{
		Config:   cfg,
		Loader:   loader,
		System:   ws,
		Reporter: &ExitReporter{},
		Windows:  NewWindowTable(),
	}
}

// Init runs the initialization chain. On error the resources created so far
// stay on the ledger; call Destroy to release them.
func (e *Engine) Init() error {
	if e.Ledger != nil {
		return precondition("engine initialized twice")
	}
	if e.Loader == nil || e.System == nil {
		return precondition("engine requires a driver loader and a window system")
	}
	if err := e.Config.Validate(); err != nil {
		return err
	}

	var err error
	if e.Ledger, err = NewLedger(e.Config.Ledger.Capacity); err != nil {
		return err
	}

	wsExtensions, err := e.System.RequiredInstanceExtensions()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "window system instance extensions"), ErrEnvironment)
	}
	e.App = NewApp(e.Config.App, e.Config.Instance).RequireExtensions(wsExtensions...)

	if e.Instance, err = e.App.CreateInstance(e.Loader, e.Ledger); err != nil {
		return errors.Wrap(err, "instance")
	}
	if e.Surface, err = e.Instance.CreateSurface(e.System, e.Windows, e.Window, e.Config.Window, e.Ledger); err != nil {
		return errors.Wrap(err, "surface")
	}
	if e.Device, err = e.Instance.CreateDevice(e.Surface, e.Config.Device, e.Ledger); err != nil {
		return errors.Wrap(err, "device")
	}
	if e.Swapchain, err = e.Device.CreateSwapchainSlot(e.Surface, e.Config.Device, e.Surface.Extent(), e.Ledger); err != nil {
		return errors.Wrap(err, "swapchain")
	}
	if e.Sync, err = e.Device.CreateFrameSync(e.Ledger); err != nil {
		return errors.Wrap(err, "frame sync")
	}
	if e.Loop, err = NewFrameLoop(e.Device, e.Surface, e.Swapchain, e.Sync, e.Config.Frames); err != nil {
		return err
	}
	logger.Info("engine initialized", "ledger_entries", e.Ledger.Len())
	return nil
}

// Run pumps events and draws until the window is closed or MaxFrames
// frames were presented. While drawing is disabled it blocks on events
// instead of polling.
func (e *Engine) Run() error {
	if e.Loop == nil {
		return precondition("engine run before init")
	}
	state := e.Surface.State
	for !state.QuitRequested() {
		if state.ShouldDraw() {
			e.System.PollEvents()
		} else {
			e.System.WaitEvents()
		}
		if e.interrupted() {
			break
		}
		if _, err := e.Loop.Tick(); err != nil {
			return err
		}
		if limit := e.Config.Frames.MaxFrames; limit > 0 && e.Loop.FrameNumber >= limit {
			break
		}
	}
	logger.Info("engine stopped", "frames", e.Loop.FrameNumber)
	return nil
}

func (e *Engine) interrupted() bool {
	select {
	case <-e.Interrupt:
		return true
	default:
		return false
	}
}

// Destroy waits for the device to go idle and runs the ledger in full. It is
// safe to call more than once.
func (e *Engine) Destroy() error {
	if e.destroyed || e.Ledger == nil {
		return nil
	}
	e.destroyed = true
	var result error
	if e.Device != nil {
		result = e.Device.WaitIdle()
	}
	return errors.CombineErrors(result, e.Ledger.Cleanup())
}

// Main is the single termination point: it initializes, runs, always tears
// down, and hands any failure to the fault reporter.
func (e *Engine) Main() {
	err := e.Init()
	if err == nil {
		err = e.Run()
	}
	err = errors.CombineErrors(err, e.Destroy())
	if err == nil {
		return
	}
	if e.Reporter == nil {
		e.Reporter = &ExitReporter{}
	}
	ReportFatal(e.Reporter, err)
}
