package vkdriver

import (
	"unsafe"

	"github.com/celer/vkboot"
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Loader is the first function wave, available before an instance exists.
type Loader struct {
	Library *Library
	Procs   *vkboot.ProcTable
}

var _ vkboot.Loader = (*Loader)(nil)

// NewLoader resolves the loader wave from lib and hands the bootstrap
// function to the vulkan binding.
func NewLoader(lib *Library) (*Loader, error) {
	if lib == nil {
		return nil, errors.Mark(errors.New("loader functions need an opened driver library"), vkboot.ErrPrecondition)
	}
	procs, err := vkboot.LoadProcs(vkboot.WaveLoader, lib.InstanceProcs(nil), vkboot.LoaderProcs)
	if err != nil {
		return nil, err
	}
	vk.SetGetInstanceProcAddr(unsafe.Pointer(lib.GetInstanceProcAddr))
	if err := vk.Init(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "vulkan binding init"), vkboot.ErrEnvironment)
	}
	return &Loader{Library: lib, Procs: procs}, nil
}

func (l *Loader) InstanceExtensions() ([]string, vk.Result) {
	var count uint32
	if res := vk.EnumerateInstanceExtensionProperties("", &count, nil); res != vk.Success {
		return nil, res
	}
	props := make([]vk.ExtensionProperties, count)
	res := vk.EnumerateInstanceExtensionProperties("", &count, props)
	return extensionNames(props[:count]), res
}

func (l *Loader) InstanceLayers() ([]string, vk.Result) {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return nil, res
	}
	props := make([]vk.LayerProperties, count)
	res := vk.EnumerateInstanceLayerProperties(&count, props)
	return layerNames(props[:count]), res
}

func (l *Loader) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, vk.Result) {
	var instance vk.Instance
	res := vk.CreateInstance(info, nil, &instance)
	return instance, res
}

// LoadInstance resolves the instance wave of instance.
func (l *Loader) LoadInstance(instance vk.Instance) (vkboot.InstanceDriver, error) {
	procs, err := vkboot.LoadProcs(vkboot.WaveInstance, l.Library.InstanceProcs(instance), vkboot.InstanceProcs)
	if err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "vulkan binding instance init"), vkboot.ErrEnvironment)
	}
	return &InstanceDriver{instance: instance, Procs: procs}, nil
}

func extensionNames(props []vk.ExtensionProperties) []string {
	names := make([]string, len(props))
	for i := range props {
		props[i].Deref()
		names[i] = vk.ToString(props[i].ExtensionName[:])
	}
	return names
}

func layerNames(props []vk.LayerProperties) []string {
	names := make([]string, len(props))
	for i := range props {
		props[i].Deref()
		names[i] = vk.ToString(props[i].LayerName[:])
	}
	return names
}
