// Package runtime provides the high-level API over the engine.
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
//	    Env:      map[string]string{"OPENAI_API_KEY": key},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	out, err := rt.Call(ctx, "ExtractResume", encodedArgs)
//
// # Streaming
//
//	stream, err := rt.CallStream(ctx, "StreamStory", encodedArgs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//	for ev := range stream.Events() {
//	    ...
//	}
//
// # The Router
//
// Callback registration inside the library is process-wide: the last
// registration wins for every runtime and every outstanding call. The
// Router owns that registration and fans events out to per-call
// listeners by call identifier. Create exactly one per process and share
// it between runtimes.
//
// # Memory
//
// Everything returned here is a Go-owned copy; the library buffers
// backing the results are released internally, exactly once. Callers who
// need zero-copy access work with the engine package directly and carry
// the release obligation themselves.
package runtime
