//go:build darwin

package engine

func defaultLibraryPaths() []string {
	return []string{
		"libbaml_ffi.dylib",
		"./libbaml_ffi.dylib",
		"./lib/libbaml_ffi.dylib",
		"/usr/local/lib/libbaml_ffi.dylib",
		"BamlFFI.framework/BamlFFI",
	}
}
