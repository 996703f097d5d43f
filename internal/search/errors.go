package search

import "errors"

var (
	// ErrNilDependency is returned when a required collaborator is nil.
	ErrNilDependency = errors.New("search: nil dependency")

	// ErrNotInitialised is returned by Search when called before Initialize.
	ErrNotInitialised = errors.New("search: engine not initialised")

	// ErrAlreadyDisposed is returned by Initialize or Search after the
	// engine has been disposed. A second Dispose is a no-op returning nil.
	ErrAlreadyDisposed = errors.New("search: engine already disposed")

	// ErrSchemaMismatch is returned when a dimension or id-range invariant
	// is violated by the underlying data.
	ErrSchemaMismatch = errors.New("search: schema mismatch")
)
