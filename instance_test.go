package vkboot

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestCreateInstance(t *testing.T) {
	h := newHarness(t)
	instance := h.createInstance(t)

	require.Equal(t, Version{Major: 1}, instance.APIVersion)
	require.Equal(t, []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}, instance.Extensions)
	require.Empty(t, instance.Layers)
	require.Equal(t, 1, h.ledger.Len())
	require.Equal(t, []string{"CreateInstance instance0", "LoadInstance"}, h.drv.log)

	require.NoError(t, h.ledger.Cleanup())
	require.Equal(t, "DestroyInstance", h.drv.log[len(h.drv.log)-1])
}

func TestCreateInstanceMissingExtension(t *testing.T) {
	h := newHarness(t)
	h.drv.instanceExtensions = []string{"VK_KHR_surface"}

	app := NewApp(h.cfg.App, h.cfg.Instance).RequireExtensions("VK_KHR_surface", "VK_KHR_xcb_surface")
	_, err := app.CreateInstance(h.drv, h.ledger)
	require.True(t, errors.Is(err, ErrEnvironment))
	require.Contains(t, err.Error(), `"VK_KHR_xcb_surface"`)
	require.Empty(t, h.drv.calls("CreateInstance"))
	require.Zero(t, h.ledger.Len())
}

func TestCreateInstanceMissingLayer(t *testing.T) {
	h := newHarness(t)
	h.drv.instanceLayers = nil
	h.cfg.Instance.Debug = true

	_, err := NewApp(h.cfg.App, h.cfg.Instance).CreateInstance(h.drv, h.ledger)
	require.True(t, errors.Is(err, ErrEnvironment))
	require.Contains(t, err.Error(), "VK_LAYER_KHRONOS_validation")
	require.Contains(t, errors.FlattenHints(err), "Vulkan SDK")
}

func TestCreateInstanceDriverFailure(t *testing.T) {
	h := newHarness(t)
	h.drv.fail["vkCreateInstance"] = vk.ErrorIncompatibleDriver

	_, err := NewApp(h.cfg.App, h.cfg.Instance).CreateInstance(h.drv, h.ledger)
	require.True(t, errors.Is(err, ErrDriver))
	require.Contains(t, err.Error(), "vkCreateInstance")
	require.Zero(t, h.ledger.Len())
}

func TestCreateInstancePreconditions(t *testing.T) {
	h := newHarness(t)
	app := NewApp(h.cfg.App, h.cfg.Instance)

	_, err := app.CreateInstance(nil, h.ledger)
	require.True(t, errors.Is(err, ErrPrecondition))
	_, err = app.CreateInstance(h.drv, nil)
	require.True(t, errors.Is(err, ErrPrecondition))
}

func TestDebugReportDestroyedFirst(t *testing.T) {
	h := newHarness(t)
	h.cfg.Instance.Debug = true
	instance := h.createInstance(t)

	require.Contains(t, instance.Layers, "VK_LAYER_KHRONOS_validation")
	require.Contains(t, instance.Extensions, "VK_EXT_debug_report")
	require.Equal(t, 2, h.ledger.Len())

	require.NoError(t, h.ledger.Cleanup())
	report, destroy := h.drv.indexOf("DestroyDebugReport"), h.drv.indexOf("DestroyInstance")
	require.NotEqual(t, -1, report)
	require.Less(t, report, destroy)
}

func TestDefaultDebugReport(t *testing.T) {
	buf := captureLog(t)
	DefaultDebugReport(vk.DebugReportFlags(vk.DebugReportErrorBit), "Validation", "bad handle")
	DefaultDebugReport(vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit), "Validation", "slow path")
	require.Contains(t, buf.String(), "level=ERROR msg=\"bad handle\"")
	require.Contains(t, buf.String(), "level=WARN msg=\"slow path\"")
}

func TestApplicationInfo(t *testing.T) {
	app := &App{Name: "demo", Version: Version{Major: 1, Minor: 2}}
	info := app.VKApplicationInfo()
	require.Equal(t, "demo\x00", info.PApplicationName)
	require.Equal(t, "\x00", info.PEngineName)
	require.Equal(t, Version{Major: 1}, DecodeVersion(info.ApiVersion))
	require.Equal(t, Version{Major: 1, Minor: 2}, DecodeVersion(info.ApplicationVersion))
}

func TestNewAppMergesNames(t *testing.T) {
	app := NewApp(AppConfig{}, InstanceConfig{
		Debug:      true,
		Layers:     []string{"VK_LAYER_KHRONOS_validation"},
		Extensions: []string{"VK_EXT_debug_report", "VK_KHR_surface"},
	})
	require.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, app.RequiredLayers)
	require.Equal(t, []string{"VK_EXT_debug_report", "VK_KHR_surface", "VK_EXT_debug_utils"}, app.RequiredExtensions)
}
