package vkboot

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	ColorSpace  vk.ColorSpace
	Device      *Device
	VKSwapchain vk.Swapchain
	Images      [SwapchainImageCount]*Image
	Views       [SwapchainImageCount]*ImageView
}

// Destroy destroys the image views, then the swapchain.
func (s *Swapchain) Destroy() {
	for i, v := range s.Views {
		if v != nil {
			v.Destroy()
			s.Views[i] = nil
		}
	}
	s.Device.Driver.DestroySwapchain(s.VKSwapchain)
}

func (s *Swapchain) GetImages() ([]*Image, error) {
	handles, res := s.Device.Driver.SwapchainImages(s.VKSwapchain)
	if err := CheckIncomplete(res, "vkGetSwapchainImagesKHR"); err != nil {
		return nil, err
	}
	ret := make([]*Image, len(handles))
	for i := range handles {
		ret[i] = &Image{Device: s.Device, VKImage: handles[i], VKFormat: s.Format}
	}
	return ret, nil
}

type CreateSwapchainOptions struct {
	Surface    *Surface
	Format     vk.Format
	ColorSpace vk.ColorSpace
	// ActualSize is the desired extent; it is clamped to the surface bounds.
	ActualSize vk.Extent2D
	// OldSwapchain is passed to the driver for reuse and destroyed once the
	// replacement is complete.
	OldSwapchain *Swapchain
}

// ClampExtent clamps want componentwise into the extent bounds of caps. The
// flag reports whether any component changed.
func ClampExtent(want vk.Extent2D, caps *vk.SurfaceCapabilities) (vk.Extent2D, bool) {
	got := vk.Extent2D{
		Width:  clamp(want.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(want.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
	return got, got.Width != want.Width || got.Height != want.Height
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// checkImageCount fails unless SwapchainImageCount lies within the surface
// bounds. A maximum of zero means no upper bound.
func checkImageCount(caps *vk.SurfaceCapabilities) error {
	if SwapchainImageCount < caps.MinImageCount ||
		(caps.MaxImageCount != 0 && SwapchainImageCount > caps.MaxImageCount) {
		return environment("surface supports %d to %d swapchain images, %d required",
			caps.MinImageCount, caps.MaxImageCount, SwapchainImageCount)
	}
	return nil
}

// CreateSwapchain builds a swapchain and its image views. It is a complete
// rebuild on every call: an old swapchain in options is destroyed only
// after its replacement and all of the replacement's views exist.
func (p *Device) CreateSwapchain(options *CreateSwapchainOptions) (*Swapchain, error) {
	switch {
	case p == nil:
		return nil, precondition("swapchain requires a device: create the device first")
	case options == nil || options.Surface == nil:
		return nil, precondition("swapchain requires a surface: create the surface first")
	}
	surface := options.Surface

	caps, err := p.PhysicalDevice.GetSurfaceCapabilities(surface.VKSurface)
	if err != nil {
		return nil, err
	}
	if err := checkImageCount(caps); err != nil {
		return nil, err
	}

	swapchainSize, clamped := ClampExtent(options.ActualSize, caps)
	if clamped {
		logger.Warn("swapchain extent clamped",
			"requested_width", options.ActualSize.Width, "requested_height", options.ActualSize.Height,
			"width", swapchainSize.Width, "height", swapchainSize.Height)
	}

	oldSwapchain := vk.NullSwapchain
	if options.OldSwapchain != nil {
		oldSwapchain = options.OldSwapchain.VKSwapchain
	}

	createInfo := &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surface.VKSurface,
		MinImageCount:         SwapchainImageCount,
		ImageFormat:           options.Format,
		ImageColorSpace:       options.ColorSpace,
		ImageExtent:           swapchainSize,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit),
		ImageSharingMode:      vk.SharingModeExclusive,
		QueueFamilyIndexCount: 1,
		PQueueFamilyIndices:   []uint32{uint32(p.Queue.QueueFamily.Index)},
		PreTransform:          vk.SurfaceTransformIdentityBit,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           vk.PresentModeFifo,
		Clipped:               vk.True,
		OldSwapchain:          oldSwapchain,
	}

	handle, res := p.Driver.CreateSwapchain(createInfo)
	if err := Check(res, "vkCreateSwapchainKHR"); err != nil {
		return nil, err
	}

	ret := &Swapchain{
		Extent:      swapchainSize,
		Format:      options.Format,
		ColorSpace:  options.ColorSpace,
		Device:      p,
		VKSwapchain: handle,
	}

	images, err := ret.GetImages()
	if err != nil {
		ret.Destroy()
		return nil, err
	}
	if len(images) != SwapchainImageCount {
		ret.Destroy()
		return nil, environment("driver returned %d swapchain images, %d required", len(images), SwapchainImageCount)
	}
	for i, img := range images {
		view, err := img.CreateImageView()
		if err != nil {
			ret.Destroy()
			return nil, errors.Wrapf(err, "swapchain image view %d", i)
		}
		ret.Images[i] = img
		ret.Views[i] = view
	}

	if options.OldSwapchain != nil {
		options.OldSwapchain.Destroy()
	}
	logger.Info("swapchain created", "width", swapchainSize.Width, "height", swapchainSize.Height,
		"images", SwapchainImageCount, "rebuild", options.OldSwapchain != nil)
	return ret, nil
}

// SwapchainSlot owns the current swapchain across rebuilds. It is registered
// on the ledger once, so resizes do not consume ledger capacity.
type SwapchainSlot struct {
	Device  *Device
	Surface *Surface
	Format  vk.Format
	Space   vk.ColorSpace
	Current *Swapchain
}

// CreateSwapchainSlot builds the first swapchain at extent and registers
// the slot on ledger.
func (p *Device) CreateSwapchainSlot(surface *Surface, cfg DeviceConfig, extent vk.Extent2D, ledger *Ledger) (*SwapchainSlot, error) {
	if ledger == nil {
		return nil, precondition("swapchain requires a cleanup ledger")
	}
	s := &SwapchainSlot{Device: p, Surface: surface, Format: cfg.Format, Space: cfg.ColorSpace}
	if err := s.Rebuild(extent); err != nil {
		return nil, err
	}
	if err := ledger.Add("swapchain", func(interface{}) error {
		s.Destroy()
		return nil
	}, s); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Rebuild replaces the current swapchain with one of the given extent,
// passing the current one as the reuse hint. On failure the current
// swapchain is kept.
func (s *SwapchainSlot) Rebuild(extent vk.Extent2D) error {
	sc, err := s.Device.CreateSwapchain(&CreateSwapchainOptions{
		Surface:      s.Surface,
		Format:       s.Format,
		ColorSpace:   s.Space,
		ActualSize:   extent,
		OldSwapchain: s.Current,
	})
	if err != nil {
		return err
	}
	s.Current = sc
	return nil
}

func (s *SwapchainSlot) Destroy() {
	if s.Current != nil {
		s.Current.Destroy()
		s.Current = nil
	}
}
