package engine

import (
	"go.uber.org/zap"

	bamlruntime "github.com/baml-go/baml-runtime"
	"github.com/baml-go/baml-runtime/errors"
)

// RuntimeHandle is the opaque identity of one execution environment
// inside the loaded library. It is never dereferenced by the bindings and
// must not outlive the Library that created it.
type RuntimeHandle uintptr

// Library is one successfully opened and symbol-resolved copy of
// libbaml_ffi. The handle and symbol table are immutable after load, so a
// Library is safe for concurrent use.
type Library struct {
	handle uintptr
	path   string
	syms   *symbolTable
}

// Load opens the dynamic library at path and resolves its entry points.
// There is no partially-valid state: either a fully usable Library comes
// back, or an error and the just-opened OS handle has been closed again.
func Load(path string) (*Library, error) {
	if path == "" {
		return nil, errors.NotLoaded("empty library path", nil)
	}

	handle, err := dlopen(path)
	if err != nil || handle == 0 {
		return nil, errors.NotLoaded("open "+path, err)
	}

	syms, err := resolveSymbols(handle)
	if err != nil {
		_ = dlclose(handle)
		return nil, err
	}

	Logger().Debug("library loaded", zap.String("path", path))
	return &Library{handle: handle, path: path, syms: syms}, nil
}

// LoadDefault probes the platform-conventional locations for libbaml_ffi
// in order and returns the first that loads.
func LoadDefault() (*Library, error) {
	return loadFirst(defaultLibraryPaths())
}

func loadFirst(paths []string) (*Library, error) {
	for _, p := range paths {
		lib, err := Load(p)
		if err == nil {
			return lib, nil
		}
		Logger().Debug("candidate rejected", zap.String("path", p), zap.Error(err))
	}
	return nil, errors.NotLoaded("no candidate library found", nil)
}

// Close releases the OS library reference. Every function pointer in the
// symbol table and every RuntimeHandle created through this Library is
// invalid afterwards. Nil receiver and repeated closes are no-ops.
func (l *Library) Close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := dlclose(l.handle)
	l.handle = 0
	l.syms = nil
	Logger().Debug("library unloaded", zap.String("path", l.path))
	return err
}

// Loaded reports whether the Library holds an open OS handle.
func (l *Library) Loaded() bool {
	return l != nil && l.handle != 0
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Has reports whether the optional entry point backing c was resolved.
// Operations depending on an absent capability fail without invoking the
// library.
func (l *Library) Has(c bamlruntime.Capability) bool {
	if !l.Loaded() {
		return false
	}
	return l.syms.has(c)
}
