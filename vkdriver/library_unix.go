//go:build linux || darwin || freebsd

package vkdriver

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/ebitengine/purego"
)

func libraryPaths() ([]string, []string) {
	var libNames []string
	var searchPaths []string

	switch runtime.GOOS {
	case "darwin":
		libNames = []string{"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"}
		searchPaths = []string{"/usr/local/lib", "/opt/homebrew/lib"}
	default:
		libNames = []string{"libvulkan.so.1", "libvulkan.so"}
		searchPaths = []string{"/usr/lib/x86_64-linux-gnu", "/usr/lib64", "/usr/lib", "/usr/local/lib"}
	}
	if sdk := os.Getenv("VULKAN_SDK"); sdk != "" {
		searchPaths = append([]string{filepath.Join(sdk, "lib")}, searchPaths...)
	}
	return libNames, searchPaths
}

func openLibrary() (*Library, error) {
	libNames, searchPaths := libraryPaths()
	for _, name := range libNames {
		candidates := []string{name}
		for _, dir := range searchPaths {
			candidates = append(candidates, filepath.Join(dir, name))
		}
		for _, path := range candidates {
			handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err != nil {
				continue
			}
			addr, err := purego.Dlsym(handle, "vkGetInstanceProcAddr")
			if err != nil || addr == 0 {
				purego.Dlclose(handle)
				return nil, errors.Newf("%s has no vkGetInstanceProcAddr", path)
			}
			return &Library{Path: path, GetInstanceProcAddr: addr, handle: handle}, nil
		}
	}
	return nil, errors.Newf("vulkan library not found (tried %v in %v)", libNames, searchPaths)
}

func closeLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}
