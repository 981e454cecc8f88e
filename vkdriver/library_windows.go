//go:build windows

package vkdriver

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

const libraryName = "vulkan-1.dll"

func openLibrary() (*Library, error) {
	candidates := []string{
		libraryName,
		filepath.Join(os.Getenv("VULKAN_SDK"), "Bin", libraryName),
		filepath.Join(os.Getenv("SystemRoot"), "System32", libraryName),
	}
	for _, path := range candidates {
		handle, err := windows.LoadLibrary(path)
		if err != nil {
			continue
		}
		addr, err := windows.GetProcAddress(handle, "vkGetInstanceProcAddr")
		if err != nil || addr == 0 {
			windows.FreeLibrary(handle)
			return nil, errors.Newf("%s has no vkGetInstanceProcAddr", path)
		}
		return &Library{Path: path, GetInstanceProcAddr: addr, handle: uintptr(handle)}, nil
	}
	return nil, errors.Newf("vulkan library not found (tried %v)", candidates)
}

func closeLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return windows.FreeLibrary(windows.Handle(handle))
}
