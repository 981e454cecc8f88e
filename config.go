package vkboot

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
	"gopkg.in/yaml.v3"
)

// Compile time sizes of the fixed resource sets.
const (
	// SwapchainImageCount is the exact number of swapchain images required.
	SwapchainImageCount = 3
	// FramesInFlight is the number of frames whose GPU work may overlap.
	FramesInFlight = 2
)

// Config defines the engine configuration
type Config struct {
	App      AppConfig      `yaml:"app"`
	Instance InstanceConfig `yaml:"instance"`
	Window   WindowConfig   `yaml:"window"`
	Device   DeviceConfig   `yaml:"device"`
	Frames   FrameConfig    `yaml:"frames"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// AppConfig is used to provide information about this specific application
type AppConfig struct {
	Name          string  `yaml:"name"`
	EngineName    string  `yaml:"engine_name"`
	Version       Version `yaml:"version"`
	EngineVersion Version `yaml:"engine_version"`
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version `yaml:"api_version"`
}

// InstanceConfig selects the instance extensions and layers to require.
type InstanceConfig struct {
	// Debug enables the validation layer and debug extensions.
	Debug bool `yaml:"debug"`
	// Extensions are required in addition to the window system's.
	Extensions []string `yaml:"extensions"`
	// Layers are required in addition to the debug layers.
	Layers []string `yaml:"layers"`
}

// WindowConfig describes the window to create when none is supplied.
type WindowConfig struct {
	Title string `yaml:"title"`
	// Width and Height of zero select DefaultWindowWidth and DefaultWindowHeight.
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	Headless bool `yaml:"headless"`
}

// DeviceConfig drives physical device selection.
type DeviceConfig struct {
	Extensions []string      `yaml:"extensions"`
	Format     vk.Format     `yaml:"format"`
	ColorSpace vk.ColorSpace `yaml:"color_space"`
}

// FrameConfig tunes the frame loop.
type FrameConfig struct {
	// Timeout bounds fence waits and image acquisition.
	Timeout time.Duration `yaml:"timeout"`
	// FlashPeriod is the number of frames in one cycle of the clear colour.
	FlashPeriod int `yaml:"flash_period"`
	// MaxFrames stops the loop after that many frames; zero runs until the
	// window is closed.
	MaxFrames uint64 `yaml:"max_frames"`
}

// LedgerConfig sizes the cleanup ledger.
type LedgerConfig struct {
	Capacity int `yaml:"capacity"`
}

const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
)

// Debug layers and extensions.
var (
	DebugLayers     = []string{"VK_LAYER_KHRONOS_validation"}
	DebugExtensions = []string{"VK_EXT_debug_utils", "VK_EXT_debug_report"}
)

// DefaultConfig returns a configuration which runs on any conforming driver.
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:          "vkboot",
			EngineName:    "vkboot",
			Version:       Version{Major: 0, Minor: 1},
			EngineVersion: Version{Major: 0, Minor: 1},
			APIVersion:    Version{Major: 1},
		},
		Window: WindowConfig{
			Title: "vkboot",
		},
		Device: DeviceConfig{
			Extensions: []string{"VK_KHR_swapchain"},
			Format:     vk.FormatB8g8r8a8Unorm,
			ColorSpace: vk.ColorspaceSrgbNonlinear,
		},
		Frames: FrameConfig{
			Timeout:     time.Second,
			FlashPeriod: 120,
		},
		Ledger: LedgerConfig{
			Capacity: 64,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Mark(errors.Wrapf(err, "read config %s", path), ErrEnvironment)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Mark(errors.Wrapf(err, "parse config %s", path), ErrEnvironment)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width < 0 || c.Window.Height < 0:
		return environment("window size %dx%d is negative", c.Window.Width, c.Window.Height)
	case c.Frames.Timeout <= 0:
		return environment("frame timeout %s must be positive", c.Frames.Timeout)
	case c.Frames.FlashPeriod <= 0:
		return environment("flash period %d must be positive", c.Frames.FlashPeriod)
	case c.Ledger.Capacity <= 0:
		return environment("ledger capacity %d must be positive", c.Ledger.Capacity)
	}
	return nil
}

// WindowSize resolves the default size sentinel.
func (w WindowConfig) WindowSize() (int, int) {
	width, height := w.Width, w.Height
	if width == 0 {
		width = DefaultWindowWidth
	}
	if height == 0 {
		height = DefaultWindowHeight
	}
	return width, height
}
