//go:build windows

package engine

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func dlopen(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil || handle == 0 {
		return 0, err
	}
	return uintptr(handle), nil
}

func dlsym(handle uintptr, name string) (uintptr, error) {
	proc, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, err
	}
	// The proc address stays valid for as long as the library handle is
	// held open.
	return uintptr(unsafe.Pointer(proc)), nil
}

func dlclose(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return windows.FreeLibrary(windows.Handle(handle))
}

func defaultLibraryPaths() []string {
	return []string{
		"baml_ffi.dll",
		".\\baml_ffi.dll",
		".\\lib\\baml_ffi.dll",
	}
}
