//go:build freebsd || linux || netbsd

package engine

func defaultLibraryPaths() []string {
	return []string{
		"libbaml_ffi.so",
		"./libbaml_ffi.so",
		"./lib/libbaml_ffi.so",
		"/usr/local/lib/libbaml_ffi.so",
		"/usr/lib/libbaml_ffi.so",
	}
}
