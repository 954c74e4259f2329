// Package engine implements the dynamic-library core of the bindings.
//
// A Library is one successfully opened and symbol-resolved copy of
// libbaml_ffi. Loading resolves nine entry points by name; the two
// mandatory ones (create_baml_runtime, call_function_from_c) gate the
// load, the rest are optional capabilities probed with Has. Resolved
// addresses are bound to Go function values once, at load time, and the
// table is immutable afterwards.
//
// Dispatch methods validate the handle, the symbol, and any required
// runtime handle before touching the library; on any local invalidity
// they return the zero Buffer and a structured error without invoking
// anything. Buffers returned by the library are propagated verbatim and
// must be released exactly once with FreeBuffer.
//
// RegisterCallbacks installs three process-wide trampolines the library
// invokes out-of-band, on threads of its own choosing. Registration is
// global: there is no unregister, and re-registration overwrites.
package engine
