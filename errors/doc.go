// Package errors provides structured error types for the BAML bindings.
//
// Every error carries a Phase (where in the boundary crossing it occurred)
// and a Kind (what went wrong), so callers can match with errors.Is against
// a prototype without string comparison:
//
//	if errors.Is(err, &bamlerrors.Error{Phase: bamlerrors.PhaseLoad, Kind: bamlerrors.KindNotLoaded}) {
//	    // no usable library
//	}
package errors
