package engine

import (
	"runtime"

	bamlruntime "github.com/baml-go/baml-runtime"
	"github.com/baml-go/baml-runtime/errors"
)

// The dispatch methods below share one shape: validate the handle, the
// resolved symbol, and any required runtime handle; on local invalidity
// return the zero Buffer and a structured error without invoking the
// library; otherwise invoke the bound entry point and propagate its
// Buffer verbatim. A returned Buffer is owned by the caller until
// FreeBuffer.

// Version queries the library's version string. Requires no runtime.
func (l *Library) Version() (bamlruntime.Buffer, error) {
	if !l.Loaded() || l.syms == nil {
		return bamlruntime.Buffer{}, errors.NotLoaded("version query without a loaded library", nil)
	}
	if l.syms.version == nil {
		return bamlruntime.Buffer{}, errors.NotResolved(symVersion)
	}
	return l.syms.version(), nil
}

// CreateRuntime constructs an execution environment inside the library.
// The three JSON strings pass through uninterpreted. A zero handle from
// the library means its own construction failed; the failure detail stays
// inside the library.
func (l *Library) CreateRuntime(rootPath, srcFilesJSON, envVarsJSON string) (RuntimeHandle, error) {
	if !l.Loaded() || l.syms == nil {
		return 0, errors.NotLoaded("runtime creation without a loaded library", nil)
	}
	handle := l.syms.createRuntime(rootPath, srcFilesJSON, envVarsJSON)
	if handle == 0 {
		return 0, errors.Rejected(symCreateRuntime, "library returned a null runtime")
	}
	return RuntimeHandle(handle), nil
}

// DestroyRuntime releases an execution environment. A zero handle, an
// unloaded library, or an absent destructor are all no-ops.
func (l *Library) DestroyRuntime(rt RuntimeHandle) {
	if !l.Loaded() || l.syms.destroyRuntime == nil || rt == 0 {
		return
	}
	l.syms.destroyRuntime(uintptr(rt))
}

// CallFunction schedules a function invocation and returns the immediate
// invocation-response Buffer. An empty response means the call was
// accepted; a non-empty one is a library-produced payload this layer does
// not interpret. Completion events arrive through the registered
// callbacks tagged with callID.
func (l *Library) CallFunction(rt RuntimeHandle, function string, encodedArgs []byte, callID uint32) (bamlruntime.Buffer, error) {
	if !l.Loaded() || l.syms == nil {
		return bamlruntime.Buffer{}, errors.NotLoaded("call without a loaded library", nil)
	}
	if rt == 0 {
		return bamlruntime.Buffer{}, errors.NilRuntime(function)
	}
	buf := l.syms.callFunction(uintptr(rt), function, byteSlicePtr(encodedArgs), uintptr(len(encodedArgs)), callID)
	runtime.KeepAlive(encodedArgs)
	return buf, nil
}

// CallFunctionStream schedules a streaming invocation. Partial results
// are delivered through the registered callbacks tagged with callID; the
// returned Buffer only acknowledges scheduling.
func (l *Library) CallFunctionStream(rt RuntimeHandle, function string, encodedArgs []byte, callID uint32) (bamlruntime.Buffer, error) {
	if !l.Loaded() || l.syms == nil {
		return bamlruntime.Buffer{}, errors.NotLoaded("stream call without a loaded library", nil)
	}
	if l.syms.callStream == nil {
		return bamlruntime.Buffer{}, errors.NotResolved(symCallStream)
	}
	if rt == 0 {
		return bamlruntime.Buffer{}, errors.NilRuntime(function)
	}
	buf := l.syms.callStream(uintptr(rt), function, byteSlicePtr(encodedArgs), uintptr(len(encodedArgs)), callID)
	runtime.KeepAlive(encodedArgs)
	return buf, nil
}

// CallObjectConstructor builds one of the library's auxiliary objects.
// Requires no runtime; the returned Buffer encodes the object handle.
func (l *Library) CallObjectConstructor(encodedArgs []byte) (bamlruntime.Buffer, error) {
	if !l.Loaded() || l.syms == nil {
		return bamlruntime.Buffer{}, errors.NotLoaded("object construction without a loaded library", nil)
	}
	if l.syms.objectConstructor == nil {
		return bamlruntime.Buffer{}, errors.NotResolved(symObjectConstructor)
	}
	buf := l.syms.objectConstructor(byteSlicePtr(encodedArgs), uintptr(len(encodedArgs)))
	runtime.KeepAlive(encodedArgs)
	return buf, nil
}

// CallObjectMethod invokes a method on a previously constructed auxiliary
// object. The runtime handle provides the execution context.
func (l *Library) CallObjectMethod(rt RuntimeHandle, encodedArgs []byte) (bamlruntime.Buffer, error) {
	if !l.Loaded() || l.syms == nil {
		return bamlruntime.Buffer{}, errors.NotLoaded("object method without a loaded library", nil)
	}
	if l.syms.objectMethod == nil {
		return bamlruntime.Buffer{}, errors.NotResolved(symObjectMethod)
	}
	if rt == 0 {
		return bamlruntime.Buffer{}, errors.NilRuntime(symObjectMethod)
	}
	buf := l.syms.objectMethod(uintptr(rt), byteSlicePtr(encodedArgs), uintptr(len(encodedArgs)))
	runtime.KeepAlive(encodedArgs)
	return buf, nil
}

// FreeBuffer returns a Buffer's storage to the library that produced it.
// A nil pointer, an unloaded library, or an absent deallocator are
// no-ops. Calling it twice for the same Buffer is caller misuse and is
// not guarded here.
func (l *Library) FreeBuffer(buf bamlruntime.Buffer) {
	if buf.Ptr == nil {
		return
	}
	if !l.Loaded() || l.syms == nil || l.syms.freeBuffer == nil {
		Logger().Debug("buffer release dropped, no deallocator available")
		return
	}
	l.syms.freeBuffer(buf.Ptr, buf.Len)
}

// byteSlicePtr returns a pointer to the first element, or nil for an
// empty slice. The caller must keep b alive across the foreign call.
func byteSlicePtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
