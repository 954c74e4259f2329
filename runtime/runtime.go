package runtime

import (
	"context"
	"strings"
	"sync"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	bamlruntime "github.com/baml-go/baml-runtime"
	"github.com/baml-go/baml-runtime/engine"
	"github.com/baml-go/baml-runtime/errors"
)

// Library is the engine surface this package consumes. *engine.Library
// implements it.
type Library interface {
	Loaded() bool
	Has(c bamlruntime.Capability) bool
	Version() (bamlruntime.Buffer, error)
	CreateRuntime(rootPath, srcFilesJSON, envVarsJSON string) (engine.RuntimeHandle, error)
	DestroyRuntime(rt engine.RuntimeHandle)
	CallFunction(rt engine.RuntimeHandle, function string, encodedArgs []byte, callID uint32) (bamlruntime.Buffer, error)
	CallFunctionStream(rt engine.RuntimeHandle, function string, encodedArgs []byte, callID uint32) (bamlruntime.Buffer, error)
	CallObjectConstructor(encodedArgs []byte) (bamlruntime.Buffer, error)
	CallObjectMethod(rt engine.RuntimeHandle, encodedArgs []byte) (bamlruntime.Buffer, error)
	FreeBuffer(buf bamlruntime.Buffer)
	RegisterCallbacks(h engine.CallbackHandlers)
}

// Runtime owns one execution environment inside the loaded library. It
// must not outlive the Library it was created from. Thread-safety of
// concurrent calls against the same Runtime is whatever the wrapped
// library guarantees; serialize unless it documents otherwise.
type Runtime struct {
	lib       Library
	router    *Router
	handle    engine.RuntimeHandle
	closeOnce sync.Once
}

// New constructs a runtime from validated configuration. The library's
// own construction failures surface as a rejected error with no detail;
// the detail stays inside the library.
func New(lib Library, router *Router, cfg Config) (*Runtime, error) {
	if lib == nil || !lib.Loaded() {
		return nil, errors.NotLoaded("runtime requires a loaded library", nil)
	}
	if router == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "router is required")
	}

	rootPath, srcJSON, envJSON, err := cfg.encode()
	if err != nil {
		return nil, err
	}

	handle, err := lib.CreateRuntime(rootPath, srcJSON, envJSON)
	if err != nil {
		return nil, err
	}

	Logger().Debug("runtime created", zap.String("root", cfg.RootPath), zap.Int("sources", len(cfg.SrcFiles)))
	return &Runtime{lib: lib, router: router, handle: handle}, nil
}

// Close destroys the runtime inside the library. Idempotent. The Runtime
// is unusable afterwards.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		r.lib.DestroyRuntime(r.handle)
		r.handle = 0
	})
}

// Version queries and parses the library's version. Requires no runtime;
// it is a property of the Library itself.
func Version(lib Library) (*semver.Version, error) {
	if lib == nil {
		return nil, errors.NotLoaded("version query without a library", nil)
	}
	buf, err := lib.Version()
	if err != nil {
		return nil, err
	}
	raw := string(copyAndFree(lib, buf))

	v, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, &errors.Error{
			Phase:  errors.PhaseCall,
			Kind:   errors.KindInvalidInput,
			Detail: "unparseable version " + raw,
			Cause:  err,
		}
	}
	return v, nil
}

// Call invokes a function and waits for its completion event. The encoded
// argument payload and the returned bytes are both opaque to the
// bindings. A non-empty immediate response from the scheduling call is
// treated as a rejection carrying the library's message.
func (r *Runtime) Call(ctx context.Context, function string, encodedArgs []byte) ([]byte, error) {
	if r == nil || r.handle == 0 {
		return nil, errors.NilRuntime(function)
	}

	id, completion := r.router.register()
	defer r.router.drop(id)

	buf, err := r.lib.CallFunction(r.handle, function, encodedArgs, id)
	if err != nil {
		return nil, err
	}
	if immediate := copyAndFree(r.lib, buf); len(immediate) > 0 {
		return nil, errors.Rejected(function, string(immediate))
	}

	select {
	case ev := <-completion:
		if ev.Kind == EventError {
			return nil, errors.CallFailed(function, ev.Code, string(ev.Data))
		}
		return ev.Data, nil
	case <-ctx.Done():
		return nil, errors.Canceled(function, ctx.Err())
	}
}

// CallStream schedules a streaming invocation and returns the stream of
// its events. The stream ends when the caller closes it, the context
// ends, or an error event arrives.
func (r *Runtime) CallStream(ctx context.Context, function string, encodedArgs []byte) (*Stream, error) {
	if r == nil || r.handle == 0 {
		return nil, errors.NilRuntime(function)
	}

	id, events := r.router.openStream()
	s := &Stream{id: id, router: r.router, events: events, done: make(chan struct{})}

	buf, err := r.lib.CallFunctionStream(r.handle, function, encodedArgs, id)
	if err != nil {
		s.Close()
		return nil, err
	}
	if immediate := copyAndFree(r.lib, buf); len(immediate) > 0 {
		s.Close()
		return nil, errors.Rejected(function, string(immediate))
	}

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Close()
			case <-s.done:
			}
		}()
	}
	return s, nil
}

// ConstructObject builds one of the library's auxiliary objects (type
// builders, collectors) and returns the encoded object handle. Requires
// no runtime.
func ConstructObject(lib Library, encodedArgs []byte) ([]byte, error) {
	if lib == nil {
		return nil, errors.NotLoaded("object construction without a library", nil)
	}
	buf, err := lib.CallObjectConstructor(encodedArgs)
	if err != nil {
		return nil, err
	}
	return copyAndFree(lib, buf), nil
}

// CallObjectMethod invokes a method on a previously constructed auxiliary
// object, in this runtime's context.
func (r *Runtime) CallObjectMethod(encodedArgs []byte) ([]byte, error) {
	if r == nil || r.handle == 0 {
		return nil, errors.NilRuntime("object method")
	}
	buf, err := r.lib.CallObjectMethod(r.handle, encodedArgs)
	if err != nil {
		return nil, err
	}
	return copyAndFree(r.lib, buf), nil
}

// copyAndFree duplicates a library buffer into Go memory and releases the
// original, exactly once.
func copyAndFree(lib Library, buf bamlruntime.Buffer) []byte {
	data := buf.Copy()
	lib.FreeBuffer(buf)
	return data
}
