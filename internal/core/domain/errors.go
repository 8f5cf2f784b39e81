package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnknownCapability indicates no implementation is registered under a
	// requested type key. Resolution never falls back to a default.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrUnknownTool indicates a dispatched tool name is not registered,
	// or is excluded by the enabled-tools allow-list.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments indicates tool arguments failed schema validation.
	// The backend is never contacted for such a request.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrBackendFailure indicates a backend call failed after valid dispatch.
	// Callers can distinguish this from validation errors.
	ErrBackendFailure = errors.New("backend failure")

	// ErrConfiguration indicates unknown capability keys or malformed config.
	// Fatal: nothing is attempted after a configuration error.
	ErrConfiguration = errors.New("configuration error")

	// ErrEmptyChunks indicates chunking a document yielded no chunks.
	ErrEmptyChunks = errors.New("empty content after chunking")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
