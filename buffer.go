package bamlruntime

import "unsafe"

// Buffer is a non-owning view of a byte range allocated inside the loaded
// library. It mirrors the 16-byte BamlCBuffer struct of the C ABI and is
// safe to use with purego.RegisterFunc.
//
// A nil Ptr always carries Len 0 and is never dereferenced. A non-nil
// Buffer must be released exactly once via the producing Library's
// FreeBuffer; the backing memory lives in the library's own allocator.
type Buffer struct {
	Ptr *byte
	Len uintptr
}

// Empty reports whether the buffer carries no payload.
func (b Buffer) Empty() bool {
	return b.Ptr == nil || b.Len == 0
}

// Bytes returns a zero-copy view of the payload. The view is valid only
// until the buffer is released; retain Copy instead when in doubt.
func (b Buffer) Bytes() []byte {
	if b.Ptr == nil {
		return nil
	}
	return unsafe.Slice(b.Ptr, b.Len)
}

// Copy returns a Go-owned duplicate of the payload. The memory is owned by
// the library, so the bytes must be copied out before release.
func (b Buffer) Copy() []byte {
	if b.Ptr == nil {
		return nil
	}
	return append([]byte(nil), unsafe.Slice(b.Ptr, b.Len)...)
}

// Capability names an optional entry point of the loaded library. The two
// mandatory entry points (runtime creation and the plain call) are not
// capabilities: a Library without them never loads.
type Capability string

const (
	CapDestroyRuntime    Capability = "destroy_baml_runtime"
	CapCallStream        Capability = "call_function_stream_from_c"
	CapObjectConstructor Capability = "call_object_constructor"
	CapObjectMethod      Capability = "call_object_method"
	CapFreeBuffer        Capability = "free_buffer"
	CapVersion           Capability = "version"
	CapCallbacks         Capability = "register_callbacks"
)
