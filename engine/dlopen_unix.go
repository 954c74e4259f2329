//go:build darwin || freebsd || linux || netbsd

package engine

import "github.com/ebitengine/purego"

// Symbols bind immediately and stay local to this process: the library's
// own symbols must never shadow or be shadowed by anything else loaded
// into the host.
func dlopen(path string) (uintptr, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil || handle == 0 {
		return 0, err
	}
	return handle, nil
}

func dlsym(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func dlclose(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}
