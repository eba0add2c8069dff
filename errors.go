package vakya

import "errors"

// Sentinel errors surfaced by the corpus layer. Backends wrap engine
// failures with these so callers can branch without knowing the engine.
var (
	// ErrPluginNotFound signals an unresolvable backend identifier.
	ErrPluginNotFound = errors.New("backend plugin not found")
	// ErrServiceUnavailable signals an unreachable backend.
	ErrServiceUnavailable = errors.New("backend service unavailable")
	// ErrNotImplemented signals a capability the bound backend lacks.
	ErrNotImplemented = errors.New("not implemented by backend")
	// ErrCollectionNotFound signals a read against an absent collection.
	ErrCollectionNotFound = errors.New("collection not found")
)
