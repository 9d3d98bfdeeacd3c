package schema

import "errors"

// Error taxonomy shared by every pipeline stage. Match with errors.Is.
var (
	// ErrConfiguration marks missing or invalid required input. The operation aborts without partial output.
	ErrConfiguration = errors.New("configuration error")

	// ErrShapeMismatch marks operands with different bin counts.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrLookupMiss marks a named histogram that is absent. Callers skip the item and continue.
	ErrLookupMiss = errors.New("lookup miss")

	// ErrFatalIO marks a required source that cannot be opened at all.
	ErrFatalIO = errors.New("fatal io error")
)
