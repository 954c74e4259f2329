// Package bamlruntime provides Go bindings for the BAML native runtime
// library, loaded at run time rather than linked at build time.
//
// The library (libbaml_ffi) is a separately-built, versioned shared object.
// This module opens it with the platform loader, resolves a fixed set of
// entry points, and moves every value across the boundary as a
// length-prefixed byte buffer owned by the side that produced it.
//
// # Architecture Overview
//
// The module is organized into a small number of packages:
//
//	bamlruntime/         Root package with the Buffer boundary type and
//	                     the Capability enumeration
//	├── engine/          Dynamic-library core: load/unload, symbol table,
//	                     raw call dispatch, callback trampolines, release
//	├── runtime/         High-level API: Config, Runtime, Router, Stream
//	└── errors/          Structured error types
//
// # Quick Start
//
//	lib, err := engine.LoadDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
//	router := runtime.NewRouter(lib)
//	rt, err := runtime.New(lib, router, runtime.Config{
//	    RootPath: "baml_src",
//	    SrcFiles: map[string]string{"main.baml": src},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	out, err := rt.Call(ctx, "ExtractResume", encodedArgs)
//
// # Buffer Ownership
//
// Every Buffer returned by the engine is backed by memory allocated inside
// the loaded library. It must be released exactly once through the same
// Library that produced it, never through a Go allocator. The runtime
// package copies payloads into Go-owned slices and performs the release
// itself; callers of the engine package carry that obligation themselves.
//
// # Thread Safety
//
// A Library and its symbol table are immutable after a successful load and
// safe for concurrent use. A runtime handle's thread-safety is whatever the
// wrapped library guarantees; serialize access unless it documents
// otherwise. Callbacks are delivered on library-managed threads, possibly
// concurrently with ongoing calls.
package bamlruntime
