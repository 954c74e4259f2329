package engine

import (
	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	bamlruntime "github.com/baml-go/baml-runtime"
	"github.com/baml-go/baml-runtime/errors"
)

// Entry point names exported by libbaml_ffi. The set is fixed by the
// library's C ABI.
const (
	symCreateRuntime     = "create_baml_runtime"
	symDestroyRuntime    = "destroy_baml_runtime"
	symCallFunction      = "call_function_from_c"
	symCallStream        = "call_function_stream_from_c"
	symObjectConstructor = "call_object_constructor"
	symObjectMethod      = "call_object_method"
	symFreeBuffer        = "free_buffer"
	symVersion           = "version"
	symRegisterCallbacks = "register_callbacks"
)

// symbolTable holds the entry points resolved at load time, bound to Go
// function values. A nil field means the symbol is absent from this build
// of the library; createRuntime and callFunction are never nil on a table
// returned by resolveSymbols. Immutable after load.
type symbolTable struct {
	createRuntime     func(rootPath, srcFilesJSON, envVarsJSON string) uintptr
	destroyRuntime    func(runtime uintptr)
	callFunction      func(runtime uintptr, function string, args *byte, argsLen uintptr, callID uint32) bamlruntime.Buffer
	callStream        func(runtime uintptr, function string, args *byte, argsLen uintptr, callID uint32) bamlruntime.Buffer
	objectConstructor func(args *byte, argsLen uintptr) bamlruntime.Buffer
	objectMethod      func(runtime uintptr, args *byte, argsLen uintptr) bamlruntime.Buffer
	freeBuffer        func(ptr *byte, length uintptr)
	version           func() bamlruntime.Buffer
	registerCallbacks func(resultCB, errorCB, tickCB uintptr)
}

// resolveSymbols builds the table for an open library handle. Individual
// lookups may fail without failing the table; only the two mandatory
// entry points gate success. The returned error leaves the handle open —
// closing it is the caller's job.
func resolveSymbols(handle uintptr) (*symbolTable, error) {
	t := &symbolTable{}

	bindSymbol(handle, symCreateRuntime, &t.createRuntime)
	bindSymbol(handle, symDestroyRuntime, &t.destroyRuntime)
	bindSymbol(handle, symCallFunction, &t.callFunction)
	bindSymbol(handle, symCallStream, &t.callStream)
	bindSymbol(handle, symObjectConstructor, &t.objectConstructor)
	bindSymbol(handle, symObjectMethod, &t.objectMethod)
	bindSymbol(handle, symFreeBuffer, &t.freeBuffer)
	bindSymbol(handle, symVersion, &t.version)
	bindSymbol(handle, symRegisterCallbacks, &t.registerCallbacks)

	if !t.mandatoryResolved() {
		return nil, errors.NotLoaded("mandatory entry points missing", nil)
	}
	return t, nil
}

// mandatoryResolved reports whether the two entry points every load
// requires are present.
func (t *symbolTable) mandatoryResolved() bool {
	return t.createRuntime != nil && t.callFunction != nil
}

// bindSymbol resolves name and binds the address to *fn via purego.
// Absent symbols leave *fn nil.
func bindSymbol[F any](handle uintptr, name string, fn *F) {
	addr, err := dlsym(handle, name)
	if err != nil || addr == 0 {
		Logger().Debug("entry point not present", zap.String("symbol", name))
		return
	}
	purego.RegisterFunc(fn, addr)
}

// has reports presence of the entry point backing a capability.
func (t *symbolTable) has(c bamlruntime.Capability) bool {
	if t == nil {
		return false
	}
	switch c {
	case bamlruntime.CapDestroyRuntime:
		return t.destroyRuntime != nil
	case bamlruntime.CapCallStream:
		return t.callStream != nil
	case bamlruntime.CapObjectConstructor:
		return t.objectConstructor != nil
	case bamlruntime.CapObjectMethod:
		return t.objectMethod != nil
	case bamlruntime.CapFreeBuffer:
		return t.freeBuffer != nil
	case bamlruntime.CapVersion:
		return t.version != nil
	case bamlruntime.CapCallbacks:
		return t.registerCallbacks != nil
	}
	return false
}
