package engine

import (
	"bytes"
	stderrors "errors"
	"testing"

	bamlruntime "github.com/baml-go/baml-runtime"
	"github.com/baml-go/baml-runtime/errors"
)

var (
	protoNotLoaded   = &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindNotLoaded}
	protoNotResolved = &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindNotResolved}
	protoNilRuntime  = &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindNilRuntime}
)

func TestDispatcherNilLibrary(t *testing.T) {
	var lib *Library

	if buf, err := lib.Version(); !buf.Empty() || !stderrors.Is(err, protoNotLoaded) {
		t.Fatalf("Version: buf=%v err=%v", buf, err)
	}
	if h, err := lib.CreateRuntime("", "{}", "{}"); h != 0 || !stderrors.Is(err, protoNotLoaded) {
		t.Fatalf("CreateRuntime: h=%v err=%v", h, err)
	}
	if buf, err := lib.CallFunction(1, "fn", nil, 1); !buf.Empty() || !stderrors.Is(err, protoNotLoaded) {
		t.Fatalf("CallFunction: buf=%v err=%v", buf, err)
	}
	if buf, err := lib.CallFunctionStream(1, "fn", nil, 1); !buf.Empty() || !stderrors.Is(err, protoNotLoaded) {
		t.Fatalf("CallFunctionStream: buf=%v err=%v", buf, err)
	}
	if buf, err := lib.CallObjectConstructor(nil); !buf.Empty() || !stderrors.Is(err, protoNotLoaded) {
		t.Fatalf("CallObjectConstructor: buf=%v err=%v", buf, err)
	}
	if buf, err := lib.CallObjectMethod(1, nil); !buf.Empty() || !stderrors.Is(err, protoNotLoaded) {
		t.Fatalf("CallObjectMethod: buf=%v err=%v", buf, err)
	}

	// void operations degrade to no-ops
	lib.DestroyRuntime(1)
	lib.FreeBuffer(mkBuffer([]byte("x")))
}

func TestMandatoryOnlyStub(t *testing.T) {
	// A library exposing only the two mandatory entry points loads, but
	// every optional operation degrades to a sentinel without invoking
	// anything.
	lib := stubLibrary(mandatoryOnly())

	if buf, err := lib.Version(); !buf.Empty() || !stderrors.Is(err, protoNotResolved) {
		t.Fatalf("Version: buf=%v err=%v", buf, err)
	}
	if buf, err := lib.CallFunctionStream(1, "fn", nil, 1); !buf.Empty() || !stderrors.Is(err, protoNotResolved) {
		t.Fatalf("CallFunctionStream: buf=%v err=%v", buf, err)
	}
	if buf, err := lib.CallObjectConstructor(nil); !buf.Empty() || !stderrors.Is(err, protoNotResolved) {
		t.Fatalf("CallObjectConstructor: buf=%v err=%v", buf, err)
	}
	if buf, err := lib.CallObjectMethod(1, nil); !buf.Empty() || !stderrors.Is(err, protoNotResolved) {
		t.Fatalf("CallObjectMethod: buf=%v err=%v", buf, err)
	}

	lib.DestroyRuntime(1)               // no destructor: no-op
	lib.FreeBuffer(mkBuffer([]byte{1})) // no deallocator: no-op
	lib.RegisterCallbacks(CallbackHandlers{})
}

func TestVersionPassthrough(t *testing.T) {
	want := []byte("0.218.0")
	syms := mandatoryOnly()
	syms.version = func() bamlruntime.Buffer { return mkBuffer(want) }

	buf, err := stubLibrary(syms).Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("version payload %q, want %q", buf.Bytes(), want)
	}
}

func TestCreateRuntimePassthrough(t *testing.T) {
	var gotRoot, gotSrc, gotEnv string
	syms := mandatoryOnly()
	syms.createRuntime = func(root, src, env string) uintptr {
		gotRoot, gotSrc, gotEnv = root, src, env
		return 0x1234
	}

	h, err := stubLibrary(syms).CreateRuntime("proj", `{"a.baml":""}`, `{}`)
	if err != nil {
		t.Fatalf("CreateRuntime: %v", err)
	}
	if h != 0x1234 {
		t.Fatalf("handle %#x, want 0x1234", h)
	}
	if gotRoot != "proj" || gotSrc != `{"a.baml":""}` || gotEnv != `{}` {
		t.Fatalf("arguments not passed through: %q %q %q", gotRoot, gotSrc, gotEnv)
	}
}

func TestCreateRuntimeNullHandle(t *testing.T) {
	syms := mandatoryOnly()
	syms.createRuntime = func(string, string, string) uintptr { return 0 }

	_, err := stubLibrary(syms).CreateRuntime("proj", "{}", "{}")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCall, Kind: errors.KindRejected}) {
		t.Fatalf("want rejected, got %v", err)
	}
}

func TestDestroyRuntime(t *testing.T) {
	var destroyed []uintptr
	syms := mandatoryOnly()
	syms.destroyRuntime = func(rt uintptr) { destroyed = append(destroyed, rt) }
	lib := stubLibrary(syms)

	lib.DestroyRuntime(0) // null runtime: no-op
	lib.DestroyRuntime(7)

	if len(destroyed) != 1 || destroyed[0] != 7 {
		t.Fatalf("destroyed %v, want [7]", destroyed)
	}
}

func TestCallFunctionNilRuntime(t *testing.T) {
	invoked := false
	syms := mandatoryOnly()
	syms.callFunction = func(uintptr, string, *byte, uintptr, uint32) bamlruntime.Buffer {
		invoked = true
		return bamlruntime.Buffer{}
	}

	buf, err := stubLibrary(syms).CallFunction(0, "fn", []byte{1}, 9)
	if !buf.Empty() || !stderrors.Is(err, protoNilRuntime) {
		t.Fatalf("buf=%v err=%v", buf, err)
	}
	if invoked {
		t.Fatal("entry point invoked despite nil runtime")
	}
}

func TestCallFunctionPassthrough(t *testing.T) {
	response := []byte("immediate")
	var gotRT uintptr
	var gotFn string
	var gotArgs []byte
	var gotID uint32

	syms := mandatoryOnly()
	syms.callFunction = func(rt uintptr, fn string, args *byte, argsLen uintptr, id uint32) bamlruntime.Buffer {
		gotRT, gotFn, gotID = rt, fn, id
		gotArgs = append([]byte(nil), bamlruntime.Buffer{Ptr: args, Len: argsLen}.Bytes()...)
		return mkBuffer(response)
	}

	encoded := []byte{0xDE, 0xAD}
	buf, err := stubLibrary(syms).CallFunction(5, "ExtractResume", encoded, 42)
	if err != nil {
		t.Fatalf("CallFunction: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), response) {
		t.Fatalf("response %q, want %q", buf.Bytes(), response)
	}
	if gotRT != 5 || gotFn != "ExtractResume" || gotID != 42 {
		t.Fatalf("passthrough mismatch: rt=%d fn=%q id=%d", gotRT, gotFn, gotID)
	}
	if !bytes.Equal(gotArgs, encoded) {
		t.Fatalf("args %v, want %v", gotArgs, encoded)
	}
}

func TestCallFunctionEmptyArgs(t *testing.T) {
	var gotPtr *byte = &[]byte{1}[0]
	syms := mandatoryOnly()
	syms.callFunction = func(_ uintptr, _ string, args *byte, argsLen uintptr, _ uint32) bamlruntime.Buffer {
		gotPtr = args
		if argsLen != 0 {
			t.Errorf("argsLen %d, want 0", argsLen)
		}
		return bamlruntime.Buffer{}
	}

	if _, err := stubLibrary(syms).CallFunction(5, "fn", nil, 1); err != nil {
		t.Fatalf("CallFunction: %v", err)
	}
	if gotPtr != nil {
		t.Fatal("empty payload should pass a nil pointer")
	}
}

func TestObjectCalls(t *testing.T) {
	handlePayload := []byte{0x01}
	methodPayload := []byte{0x02}
	syms := mandatoryOnly()
	syms.objectConstructor = func(args *byte, argsLen uintptr) bamlruntime.Buffer {
		return mkBuffer(handlePayload)
	}
	syms.objectMethod = func(rt uintptr, args *byte, argsLen uintptr) bamlruntime.Buffer {
		if rt != 5 {
			t.Errorf("runtime %d, want 5", rt)
		}
		return mkBuffer(methodPayload)
	}
	lib := stubLibrary(syms)

	buf, err := lib.CallObjectConstructor([]byte("ctor"))
	if err != nil || !bytes.Equal(buf.Bytes(), handlePayload) {
		t.Fatalf("constructor: buf=%v err=%v", buf, err)
	}

	if _, err := lib.CallObjectMethod(0, []byte("m")); !stderrors.Is(err, protoNilRuntime) {
		t.Fatalf("method without runtime: %v", err)
	}

	buf, err = lib.CallObjectMethod(5, []byte("m"))
	if err != nil || !bytes.Equal(buf.Bytes(), methodPayload) {
		t.Fatalf("method: buf=%v err=%v", buf, err)
	}
}

func TestFreeBuffer(t *testing.T) {
	type freed struct {
		ptr *byte
		len uintptr
	}
	var calls []freed
	syms := mandatoryOnly()
	syms.freeBuffer = func(ptr *byte, length uintptr) { calls = append(calls, freed{ptr, length}) }
	lib := stubLibrary(syms)

	lib.FreeBuffer(bamlruntime.Buffer{}) // nil pointer: no-op

	payload := []byte("owned by the library")
	buf := mkBuffer(payload)
	lib.FreeBuffer(buf)

	if len(calls) != 1 {
		t.Fatalf("deallocator invoked %d times, want 1", len(calls))
	}
	if calls[0].ptr != &payload[0] || calls[0].len != uintptr(len(payload)) {
		t.Fatal("pointer and length not forwarded verbatim")
	}
}
