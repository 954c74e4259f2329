package engine

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
)

// CallbackHandlers receives asynchronous completion events from the
// library. Handlers run on whatever thread the library chooses, possibly
// concurrently with ongoing calls; payload slices are Go-owned copies and
// safe to retain.
type CallbackHandlers struct {
	OnResult func(callID uint32, code int32, data []byte)
	OnError  func(callID uint32, code int32, data []byte)
	OnTick   func(callID uint32)
}

// Callback registration is process-wide state with an init-only
// lifecycle: the library keeps whatever function pointers it was last
// given, and there is no unregister. The trampolines are created once and
// forward into an atomically swapped handler set, so re-registration
// replaces the handlers without handing the library new pointers.
var (
	trampolineOnce   sync.Once
	resultTrampoline uintptr
	errorTrampoline  uintptr
	tickTrampoline   uintptr

	handlers atomic.Pointer[CallbackHandlers]
)

// RegisterCallbacks installs h as the process-wide callback sink and
// forwards the trampolines to the library's registration entry point.
// A no-op when the entry point is absent. Re-registration overwrites the
// previous handlers for all libraries and all outstanding calls.
func (l *Library) RegisterCallbacks(h CallbackHandlers) {
	if !l.Loaded() || l.syms == nil || l.syms.registerCallbacks == nil {
		Logger().Debug("callback registration skipped, entry point not resolved")
		return
	}
	handlers.Store(&h)
	result, errcb, tick := trampolines()
	l.syms.registerCallbacks(result, errcb, tick)
}

func trampolines() (result, errcb, tick uintptr) {
	trampolineOnce.Do(func() {
		resultTrampoline = purego.NewCallback(dispatchResult)
		errorTrampoline = purego.NewCallback(dispatchError)
		tickTrampoline = purego.NewCallback(dispatchTick)
	})
	return resultTrampoline, errorTrampoline, tickTrampoline
}

func dispatchResult(callID uint32, code int32, data *byte, length uintptr) {
	h := handlers.Load()
	if h == nil || h.OnResult == nil {
		return
	}
	h.OnResult(callID, code, copyPayload(data, length))
}

func dispatchError(callID uint32, code int32, data *byte, length uintptr) {
	h := handlers.Load()
	if h == nil || h.OnError == nil {
		return
	}
	h.OnError(callID, code, copyPayload(data, length))
}

func dispatchTick(callID uint32) {
	h := handlers.Load()
	if h == nil || h.OnTick == nil {
		return
	}
	h.OnTick(callID)
}

// copyPayload duplicates callback bytes into Go memory. The library owns
// the payload only for the duration of the callback.
func copyPayload(data *byte, length uintptr) []byte {
	if data == nil || length == 0 {
		return nil
	}
	return append([]byte(nil), unsafe.Slice(data, length)...)
}
