package core

import "errors"

// Common errors.
var (
	// ErrUniqueKeyMismatch means the interchange node was applied to the
	// wrong live topic. This is caller error and aborts the import; prior
	// mutations are not rolled back.
	ErrUniqueKeyMismatch = errors.New("unique key mismatch")

	// ErrTopicNotFound means a unique key did not resolve in the live graph.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrNoStore means a store-backed operation was requested on a service
	// configured without a snapshot store.
	ErrNoStore = errors.New("no snapshot store configured")
)
