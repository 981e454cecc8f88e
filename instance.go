package vkboot

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// App is used to provide information about this specific application to
// Vulkan, and collects the instance extensions and layers it requires.
type App struct {
	// Name the name of the application
	Name string
	// Engine the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// EngineVersion the version of the engine
	EngineVersion Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	// Debug installs the validation layer debug report callback.
	Debug bool

	// RequiredLayers must all be available or instance creation fails.
	RequiredLayers []string
	// RequiredExtensions must all be available or instance creation fails.
	RequiredExtensions []string
}

// NewApp creates the application description from its configuration.
func NewApp(cfg AppConfig, icfg InstanceConfig) *App {
	a := &App{
		Name:          cfg.Name,
		EngineName:    cfg.EngineName,
		Version:       cfg.Version,
		EngineVersion: cfg.EngineVersion,
		APIVersion:    cfg.APIVersion,
	}
	a.RequireExtensions(icfg.Extensions...)
	a.RequireLayers(icfg.Layers...)
	if icfg.Debug {
		a.EnableDebugging()
	}
	return a
}

// EnableDebugging requires the validation layer and the debug extensions.
func (a *App) EnableDebugging() *App {
	a.Debug = true
	a.RequireLayers(DebugLayers...)
	a.RequireExtensions(DebugExtensions...)
	return a
}

// RequireLayers adds layers to the required set.
func (a *App) RequireLayers(layers ...string) *App {
	a.RequiredLayers = mergeNames(a.RequiredLayers, layers...)
	return a
}

// RequireExtensions adds extensions to the required set.
func (a *App) RequireExtensions(extensions ...string) *App {
	a.RequiredExtensions = mergeNames(a.RequiredExtensions, extensions...)
	return a
}

// VKApplicationInfo creates a structure representing this application in a Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	api := a.APIVersion
	if api.Major < 1 {
		api.Major = 1
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         api.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		EngineVersion:      a.EngineVersion.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// SupportedLayers returns the instance layers the loader offers.
func SupportedLayers(loader Loader) ([]string, error) {
	layers, res := loader.InstanceLayers()
	if err := CheckIncomplete(res, "vkEnumerateInstanceLayerProperties"); err != nil {
		return nil, err
	}
	return layers, nil
}

// SupportedExtensions returns the instance extensions the loader offers.
func SupportedExtensions(loader Loader) ([]string, error) {
	exts, res := loader.InstanceExtensions()
	if err := CheckIncomplete(res, "vkEnumerateInstanceExtensionProperties"); err != nil {
		return nil, err
	}
	return exts, nil
}

// Instance is an instance of the Vulkan subsystem together with its
// instance-level functions.
type Instance struct {
	// VKInstance is the native Vulkan instance object
	VKInstance vk.Instance
	Driver     InstanceDriver
	APIVersion Version
	Extensions []string
	Layers     []string
}

// CreateInstance validates the required extensions and layers, creates the
// instance and loads its functions. Destruction is registered on ledger.
func (a *App) CreateInstance(loader Loader, ledger *Ledger) (*Instance, error) {
	if loader == nil {
		return nil, precondition("instance creation requires a loaded driver")
	}
	if ledger == nil {
		return nil, precondition("instance creation requires a cleanup ledger")
	}

	exts, err := SupportedExtensions(loader)
	if err != nil {
		return nil, err
	}
	if err := RequireNames("instance extension", exts, a.RequiredExtensions); err != nil {
		return nil, err
	}
	layers, err := SupportedLayers(loader)
	if err != nil {
		return nil, err
	}
	if err := RequireNames("instance layer", layers, a.RequiredLayers); err != nil {
		return nil, errors.WithHint(err, "install the Vulkan SDK or disable debugging")
	}

	appInfo := a.VKApplicationInfo()
	extensions := safeStrings(a.RequiredExtensions)
	enabledLayers := safeStrings(a.RequiredLayers)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(enabledLayers)),
		PpEnabledLayerNames:     enabledLayers,
	}

	handle, res := loader.CreateInstance(&createInfo)
	if err := Check(res, "vkCreateInstance"); err != nil {
		return nil, err
	}

	drv, err := loader.LoadInstance(handle)
	if err != nil {
		return nil, errors.Wrap(err, "load instance functions")
	}

	instance := &Instance{
		VKInstance: handle,
		Driver:     drv,
		APIVersion: DecodeVersion(appInfo.ApiVersion),
		Extensions: a.RequiredExtensions,
		Layers:     a.RequiredLayers,
	}
	if err := ledger.Add("instance", func(interface{}) error {
		instance.Destroy()
		return nil
	}, instance); err != nil {
		drv.DestroyInstance()
		return nil, err
	}
	logger.Info("instance created", "app", a.Name, "api", instance.APIVersion.String(),
		"extensions", len(extensions), "layers", len(enabledLayers))

	if a.Debug {
		if err := instance.installDebugReport(ledger); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (i *Instance) installDebugReport(ledger *Ledger) error {
	cb, res := i.Driver.InstallDebugReport(DefaultDebugReport)
	if err := Check(res, "vkCreateDebugReportCallbackEXT"); err != nil {
		return err
	}
	return ledger.Add("debug report", func(interface{}) error {
		i.Driver.DestroyDebugReport(cb)
		return nil
	}, cb)
}

// DefaultDebugReport logs validation layer messages.
func DefaultDebugReport(flags vk.DebugReportFlags, layerPrefix, message string) {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		logger.Error(message, "layer", layerPrefix)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		logger.Warn(message, "layer", layerPrefix)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		logger.Debug(message, "layer", layerPrefix)
	default:
		logger.Info(message, "layer", layerPrefix)
	}
}

// PhysicalDevices returns a list of physical devices known to Vulkan
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	handles, res := i.Driver.PhysicalDevices()
	if err := CheckIncomplete(res, "vkEnumeratePhysicalDevices"); err != nil {
		return nil, err
	}
	ret := make([]*PhysicalDevice, len(handles))
	for j, h := range handles {
		ret[j] = &PhysicalDevice{
			Instance:         i,
			VKPhysicalDevice: h,
			Properties:       i.Driver.Properties(h),
		}
		ret[j].DeviceName = ret[j].Properties.Name
	}
	return ret, nil
}

// Destroy destroys the instance. It is normally called by the ledger.
func (i *Instance) Destroy() {
	i.Driver.DestroyInstance()
}
